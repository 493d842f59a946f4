// Package remove удаляет ответ.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/services/submission"
)

// Service удаление ответов.
type Service interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler удаление ответа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить ответ
// @Tags Admin
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID ответа"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/submissions/{id}/ [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.submission.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", submission.NotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("submission deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
