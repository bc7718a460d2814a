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

// MarkSeen идемпотентно фиксирует просмотр поста или профиля.
//
// Операция best-effort: без аутентифицированного пользователя она
// молча пропускается, а запрет политики доступа (чужой закрытый
// профиль) проглатывается — вызывающая сторона не должна падать
// из-за телеметрии просмотров.
func (s *Service) MarkSeen(ctx context.Context, actor uuid.UUID, target models.SeenTarget, targetID string) error {
	const op = "service/views/MarkSeen"

	targetID = strings.TrimSpace(targetID)
	lg := log.From(ctx).With("op", op, "target_type", string(target), "target_id", targetID)

	if actor == uuid.Nil {
		return nil
	}

	if !target.Valid() || targetID == "" {
		lg.Warn("invalid argument")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	err := s.storage.UpsertView(ctx, models.View{
		TargetType: target,
		TargetID:   targetID,
		UserID:     actor,
		SeenAt:     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrPolicyDenied) {
			lg.Warn("seen denied by policy")
			return nil
		}

		lg.Error("storage error on UpsertView", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}
