package handlers

import (
	"fmt"
	"net/http"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/service"
	"github.com/avikulina/kinolenta/internal/transport/http/apierrors"
	"github.com/avikulina/kinolenta/internal/transport/http/middleware"
)

type toggleLikeRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Liked      bool   `json:"liked"`
}

// ToggleLike — POST /likes. Идемпотентный переключатель: повторное
// включение или выключение не считается ошибкой.
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var in toggleLikeRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	actor := middleware.ActorFrom(r.Context())

	err := h.Service.ToggleLike(r.Context(), actor, models.LikeTarget(in.TargetType), in.TargetID, in.Liked)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type likeStateResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// LikeState — GET /likes/state?target_type=...&target_id=...
// Для анонима liked всегда false.
func (h *Handlers) LikeState(w http.ResponseWriter, r *http.Request) {
	target := models.LikeTarget(r.URL.Query().Get("target_type"))
	targetID := r.URL.Query().Get("target_id")
	if targetID == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	actor := middleware.ActorFrom(r.Context())

	liked, err := h.Service.IsLiked(r.Context(), actor, target, targetID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	count, err := h.Service.CountLikes(r.Context(), target, targetID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, likeStateResponse{Liked: liked, Count: count})
}

type likesBatchRequest struct {
	TargetType string   `json:"target_type"`
	IDs        []string `json:"ids"`
}

type likesBatchResponse struct {
	Counts map[string]int64 `json:"counts"`
	Liked  []string         `json:"liked"`
}

// LikesBatch — POST /likes/batch. Батч-гидрация счётчиков и флагов
// лайков для набора целей одним запросом.
func (h *Handlers) LikesBatch(w http.ResponseWriter, r *http.Request) {
	var in likesBatchRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	target := models.LikeTarget(in.TargetType)
	actor := middleware.ActorFrom(r.Context())

	counts, err := h.Service.CountLikesMany(r.Context(), target, in.IDs)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	likedSet, err := h.Service.LikedMany(r.Context(), actor, target, in.IDs)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	liked := make([]string, 0, len(likedSet))
	for id := range likedSet {
		liked = append(liked, id)
	}

	writeJSON(w, http.StatusOK, likesBatchResponse{Counts: counts, Liked: liked})
}

// statusErrorInvalidArgument — вспомогалка: локальная ошибка парсинга -> 400.
func statusErrorInvalidArgument() error {
	return fmt.Errorf("bad request body: %w", service.ErrInvalidArgument)
}
