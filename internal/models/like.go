package models

import (
	"time"

	"github.com/google/uuid"
)

// LikeTarget — тип сущности, к которой относится лайк.
type LikeTarget string

const (
	LikePost    LikeTarget = "post"
	LikeComment LikeTarget = "comment"
	LikeReply   LikeTarget = "reply"
)

// Valid сообщает, известен ли тип цели.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikePost, LikeComment, LikeReply:
		return true
	}

	return false
}

// Like — запись о лайке. Уникальность пары (цель, пользователь)
// обеспечивает индекс хранилища; повторная вставка — не ошибка.
type Like struct {
	TargetType LikeTarget
	TargetID   string
	UserID     uuid.UUID
	CreatedAt  time.Time
}

// SeenTarget — тип сущности, просмотр которой фиксируется.
type SeenTarget string

const (
	SeenPost    SeenTarget = "post"
	SeenProfile SeenTarget = "profile"
)

// Valid сообщает, известен ли тип цели просмотра.
func (t SeenTarget) Valid() bool {
	return t == SeenPost || t == SeenProfile
}

// View — отметка «пользователь видел сущность». Идемпотентный upsert.
type View struct {
	TargetType SeenTarget
	TargetID   string
	UserID     uuid.UUID
	SeenAt     time.Time
}
