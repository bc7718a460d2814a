package handlers

import (
	"net/http"

	"github.com/avikulina/kinolenta/internal/models"
	"github.com/avikulina/kinolenta/internal/transport/http/apierrors"
	"github.com/avikulina/kinolenta/internal/transport/http/middleware"
)

type markSeenRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

// MarkSeen — POST /views. Идемпотентная отметка просмотра;
// для анонима — no-op.
func (h *Handlers) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var in markSeenRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	actor := middleware.ActorFrom(r.Context())

	err := h.Service.MarkSeen(r.Context(), actor, models.SeenTarget(in.TargetType), in.TargetID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
