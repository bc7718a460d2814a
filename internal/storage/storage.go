// Package storage описывает контракты хранилищ engagement-ядра.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avikulina/kinolenta/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (повторный лайк).
	ErrConflict = errors.New("conflict")
	// ErrParentNotFound — указан parent_id, но родитель не найден.
	ErrParentNotFound = errors.New("parent not found")
	// ErrMaxDepthExceeded — попытка ответить на ответ: глубина фиксирована одним уровнем.
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrPolicyDenied — политика доступа запретила операцию (чужой закрытый профиль и т.п.).
	ErrPolicyDenied = errors.New("policy denied")
)

// Engagement описывает операции над лайками, комментариями и просмотрами.
type Engagement interface {
	// InsertLike добавляет запись о лайке.
	// Повторная вставка той же пары (цель, пользователь) — ErrConflict.
	InsertLike(ctx context.Context, like models.Like) error

	// DeleteLike удаляет запись о лайке.
	// Отсутствие записи — ErrNotFound.
	DeleteLike(ctx context.Context, target models.LikeTarget, targetID string, userID uuid.UUID) error

	// IsLiked сообщает, лайкал ли пользователь цель.
	IsLiked(ctx context.Context, target models.LikeTarget, targetID string, userID uuid.UUID) (bool, error)

	// CountLikes возвращает точное число лайков цели.
	CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)

	// CountLikesMany возвращает счётчики лайков для набора целей одним запросом.
	// Цели без лайков в результате отсутствуют.
	CountLikesMany(ctx context.Context, target models.LikeTarget, ids []string) (map[string]int64, error)

	// LikedMany возвращает подмножество ids, лайкнутых пользователем, одним запросом.
	LikedMany(ctx context.Context, target models.LikeTarget, ids []string, userID uuid.UUID) (map[string]struct{}, error)

	// CreateComment создаёт корневой комментарий или ответ.
	// Для ответа родитель обязан существовать (ErrParentNotFound)
	// и быть корнем (ErrMaxDepthExceeded).
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)

	// DeleteComment удаляет комментарий; для корня — вместе с ответами.
	// Возвращает общее число удалённых узлов. Отсутствие записи — ErrNotFound.
	DeleteComment(ctx context.Context, id string) (int64, error)

	// FetchThread возвращает полную двухуровневую ветку поста:
	// корни (created_at DESC) и все ответы (created_at ASC).
	FetchThread(ctx context.Context, postID uuid.UUID) (*models.Thread, error)

	// UpsertView идемпотентно фиксирует просмотр.
	// Запрет политики доступа — ErrPolicyDenied.
	UpsertView(ctx context.Context, view models.View) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

// KV — минимальный контракт долговечного key-value хранилища
// под локальным кэшем. Документ переживает перезапуск клиента,
// но не обязан разделяться между устройствами.
type KV interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет значение целиком (last-writer-wins).
	Set(ctx context.Context, key string, value []byte) error
	// Del удаляет ключ; отсутствие ключа — не ошибка.
	Del(ctx context.Context, key string) error
	// Close закрывает клиент хранилища.
	Close() error
}
