package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/pkg/log"
	"github.com/avikulina/kinolenta/internal/storage"
)

// CreateCommentInput — входные данные создания комментария или ответа.
// ParentID пустой для корневого комментария.
type CreateCommentInput struct {
	PostID         uuid.UUID
	ParentID       string
	Actor          uuid.UUID
	AuthorUsername string
	AuthorAvatar   string
	Content        string
}

// CreateComment создаёт корневой комментарий или ответ.
//
// Текст приходит уже пропущенным через модерацию на стороне сессии;
// здесь остаётся только серверная страховка: непустой текст и лимит
// длины из конфигурации.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "parent_id", in.ParentID)

	if in.Actor == uuid.Nil {
		lg.Warn("unauthenticated comment attempt")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	content := strings.TrimSpace(in.Content)
	if in.PostID == uuid.Nil || content == "" {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if max := s.cfg.Limits.CommentMaxLength; max > 0 && len([]rune(content)) > max {
		lg.Warn("comment too long", "limit", max)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	created, err := s.storage.CreateComment(ctx, models.Comment{
		PostID:         in.PostID,
		ParentID:       strings.TrimSpace(in.ParentID),
		AuthorID:       in.Actor,
		AuthorUsername: in.AuthorUsername,
		AuthorAvatar:   in.AuthorAvatar,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrParentNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
		case errors.Is(err, storage.ErrMaxDepthExceeded):
			return nil, fmt.Errorf("%s: %w", op, ErrMaxDepthExceeded)
		default:
			lg.Error("storage error on CreateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return created, nil
}

// DeleteComment удаляет комментарий; для корня — вместе со всеми ответами.
// Возвращает общее число удалённых узлов (1 для ответа, 1+N для корня).
func (s *Service) DeleteComment(ctx context.Context, actor uuid.UUID, id string) (int64, error) {
	const op = "service/comments/DeleteComment"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "comment_id", id)

	if actor == uuid.Nil {
		lg.Warn("unauthenticated delete attempt")
		return 0, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if id == "" {
		lg.Warn("invalid argument")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	removed, err := s.storage.DeleteComment(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on DeleteComment", "err", err)
		return 0, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return removed, nil
}

// FetchThread возвращает плоскую двухуровневую ветку поста:
// корни (created_at DESC) и все их ответы (created_at ASC).
// Сборку дерева и раскрытие ответов выполняет вызывающая сторона.
func (s *Service) FetchThread(ctx context.Context, postID uuid.UUID) (*models.Thread, error) {
	const op = "service/comments/FetchThread"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	if postID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	thread, err := s.storage.FetchThread(ctx, postID)
	if err != nil {
		lg.Error("storage error on FetchThread", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return thread, nil
}
