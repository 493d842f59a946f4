// Package read ответ с историей изменений.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/services/submission"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// Service чтение ответа для администратора.
type Service interface {
	AdminGet(ctx context.Context, id uuid.UUID) (views.AdminSubmission, error)
}

// Handler карточка ответа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ответ (администратор)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID ответа"
// @Success 200 {object} views.AdminSubmission
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/submissions/{id}/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.submission.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", submission.NotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	sub, err := h.service.AdminGet(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, sub)
}
