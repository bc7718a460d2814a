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

// ToggleLike — включение/выключение лайка.
//
// Поведение:
//   - liked=true: вставка записи; конфликт уникальности (повторный лайк)
//     трактуется как успех — включение идемпотентно;
//   - liked=false: удаление записи; отсутствие записи — тоже успех,
//     выключать нечего;
//   - без аутентифицированного пользователя — ErrUnauthenticated до
//     какого-либо похода в хранилище.
func (s *Service) ToggleLike(ctx context.Context, actor uuid.UUID, target models.LikeTarget, targetID string, liked bool) error {
	const op = "service/likes/ToggleLike"

	targetID = strings.TrimSpace(targetID)
	lg := log.From(ctx).With("op", op, "target_type", string(target), "target_id", targetID, "liked", liked)

	if actor == uuid.Nil {
		lg.Warn("unauthenticated like attempt")
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if !target.Valid() || targetID == "" {
		lg.Warn("invalid argument")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if liked {
		err := s.storage.InsertLike(ctx, models.Like{
			TargetType: target,
			TargetID:   targetID,
			UserID:     actor,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				// Уже лайкнуто — желаемое состояние достигнуто.
				return nil
			}

			lg.Error("storage error on InsertLike", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}

		return nil
	}

	if err := s.storage.DeleteLike(ctx, target, targetID, actor); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		lg.Error("storage error on DeleteLike", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}

// IsLiked — лайкал ли пользователь цель.
// Без аутентифицированного пользователя возвращает false без ошибки.
func (s *Service) IsLiked(ctx context.Context, actor uuid.UUID, target models.LikeTarget, targetID string) (bool, error) {
	const op = "service/likes/IsLiked"

	targetID = strings.TrimSpace(targetID)
	lg := log.From(ctx).With("op", op, "target_type", string(target), "target_id", targetID)

	if actor == uuid.Nil {
		return false, nil
	}

	if !target.Valid() || targetID == "" {
		lg.Warn("invalid argument")
		return false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	liked, err := s.storage.IsLiked(ctx, target, targetID, actor)
	if err != nil {
		lg.Error("storage error on IsLiked", "err", err)
		return false, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return liked, nil
}

// CountLikes — точное число лайков цели.
func (s *Service) CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	const op = "service/likes/CountLikes"

	targetID = strings.TrimSpace(targetID)
	lg := log.From(ctx).With("op", op, "target_type", string(target), "target_id", targetID)

	if !target.Valid() || targetID == "" {
		lg.Warn("invalid argument")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	n, err := s.storage.CountLikes(ctx, target, targetID)
	if err != nil {
		lg.Error("storage error on CountLikes", "err", err)
		return 0, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return n, nil
}

// CountLikesMany — счётчики лайков для набора целей одним походом.
// Цели без лайков получают явный ноль: вызывающему не приходится
// различать «нет записи» и «нет лайков».
func (s *Service) CountLikesMany(ctx context.Context, target models.LikeTarget, ids []string) (map[string]int64, error) {
	const op = "service/likes/CountLikesMany"

	lg := log.From(ctx).With("op", op, "target_type", string(target), "ids", len(ids))

	if !target.Valid() {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if len(ids) == 0 {
		return map[string]int64{}, nil
	}

	counts, err := s.storage.CountLikesMany(ctx, target, ids)
	if err != nil {
		lg.Error("storage error on CountLikesMany", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	for _, id := range ids {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}

	return counts, nil
}

// LikedMany — подмножество ids, лайкнутых пользователем, одним походом.
// Без аутентифицированного пользователя — пустое множество без ошибки.
func (s *Service) LikedMany(ctx context.Context, actor uuid.UUID, target models.LikeTarget, ids []string) (map[string]struct{}, error) {
	const op = "service/likes/LikedMany"

	lg := log.From(ctx).With("op", op, "target_type", string(target), "ids", len(ids))

	if actor == uuid.Nil {
		return map[string]struct{}{}, nil
	}

	if !target.Valid() {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if len(ids) == 0 {
		return map[string]struct{}{}, nil
	}

	liked, err := s.storage.LikedMany(ctx, target, ids, actor)
	if err != nil {
		lg.Error("storage error on LikedMany", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return liked, nil
}
