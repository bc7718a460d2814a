// handlers реализует REST-эндпойнты engagement-ядра поверх сервисного
// слоя: лайки, ветки комментариев, отметки просмотров.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avikulina/kinolenta/internal/films"
	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
// Films может быть nil — тогда эндпойнт каталога не регистрируется.
type Handlers struct {
	Service *service.Service
	Films   *films.Loader
}

func New(s *service.Service, loader *films.Loader) *Handlers {
	return &Handlers{Service: s, Films: loader}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// commentView — проекция доменного комментария на провод.
type commentView struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	ParentID       string    `json:"parent_id,omitempty"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   string    `json:"author_avatar,omitempty"`
	Content        string    `json:"content"`
	LikeCount      int64     `json:"like_count"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCommentView(c models.Comment) commentView {
	return commentView{
		ID:             c.ID,
		PostID:         c.PostID.String(),
		ParentID:       c.ParentID,
		AuthorID:       c.AuthorID.String(),
		AuthorUsername: c.AuthorUsername,
		AuthorAvatar:   c.AuthorAvatar,
		Content:        c.Content,
		LikeCount:      c.LikeCount,
		CreatedAt:      c.CreatedAt,
	}
}

func toCommentViews(cs []models.Comment) []commentView {
	out := make([]commentView, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCommentView(c))
	}

	return out
}
