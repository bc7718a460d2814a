// Package models содержит доменные сущности engagement-ядра kinolenta.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — внутренняя доменная модель комментария (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB. Наружу/вовнутрь конвертируется в string.
//   - PostID/AuthorID — UUID из смежных подсистем (лента/пользователи).
//   - ParentID — ObjectID корневого комментария; пустая строка у корня.
//     Глубина дерева фиксирована: у ответа родитель всегда корень.
//   - LikeCount — денормализованный счётчик лайков для выдачи в ленту;
//     точное значение живёт в коллекции likes.
//   - AuthorUsername/AuthorAvatar — атрибуция автора на момент записи.
type Comment struct {
	ID             string
	PostID         uuid.UUID
	ParentID       string
	AuthorID       uuid.UUID
	AuthorUsername string
	AuthorAvatar   string
	Content        string
	LikeCount      int64
	CreatedAt      time.Time
}

// IsReply сообщает, является ли комментарий ответом в ветке.
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

// Thread — плоский результат выборки ветки поста:
// корни в порядке created_at DESC, ответы в порядке created_at ASC.
type Thread struct {
	Roots   []Comment
	Replies []Comment
}
