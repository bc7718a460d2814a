package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avikulina/kinolenta/internal/service"
	"github.com/avikulina/kinolenta/internal/transport/http/apierrors"
	"github.com/avikulina/kinolenta/internal/transport/http/middleware"
)

type createCommentRequest struct {
	PostID         string `json:"post_id"`
	ParentID       string `json:"parent_id,omitempty"`
	AuthorUsername string `json:"author_username"`
	AuthorAvatar   string `json:"author_avatar,omitempty"`
	Content        string `json:"content"`
}

// CreateComment — POST /comments. Корневой комментарий или ответ
// (при заданном parent_id; глубина — один уровень).
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in createCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	postID, err := uuid.Parse(in.PostID)
	if err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	created, err := h.Service.CreateComment(r.Context(), service.CreateCommentInput{
		PostID:         postID,
		ParentID:       in.ParentID,
		Actor:          middleware.ActorFrom(r.Context()),
		AuthorUsername: in.AuthorUsername,
		AuthorAvatar:   in.AuthorAvatar,
		Content:        in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentView(*created))
}

type deleteCommentResponse struct {
	Removed int64 `json:"removed"`
}

// DeleteComment — DELETE /comments/{id}. Для корня удаляются и все
// ответы; в ответе — общее число удалённых узлов.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	removed, err := h.Service.DeleteComment(r.Context(), middleware.ActorFrom(r.Context()), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteCommentResponse{Removed: removed})
}

type threadResponse struct {
	Roots   []commentView `json:"roots"`
	Replies []commentView `json:"replies"`
}

// GetThread — GET /posts/{post_id}/thread. Плоская двухуровневая
// ветка: корни от новых к старым, ответы от старых к новым. Сборку
// дерева выполняет клиентская сторона.
func (h *Handlers) GetThread(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	thread, err := h.Service.FetchThread(r.Context(), postID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadResponse{
		Roots:   toCommentViews(thread.Roots),
		Replies: toCommentViews(thread.Replies),
	})
}
