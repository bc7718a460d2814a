package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avikulina/kinolenta/internal/transport/http/apierrors"
)

// Film — GET /films/{id}. Отдаёт payload внешнего каталога как есть,
// через трёхступенчатый доступ загрузчика (навигационный payload ->
// долговечный кэш -> живая выборка).
func (h *Handlers) Film(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	payload, err := h.Films.Film(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
