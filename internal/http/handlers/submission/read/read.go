// Package read отдает пользователю его ответ на задание.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/access"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// Service ответы пользователя.
type Service interface {
	GetOwn(ctx context.Context, p models.Principal, taskID uuid.UUID) (views.Submission, error)
}

// Handler ответ пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Свой ответ на задание
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID задания"
// @Success 200 {object} views.Submission
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/tasks/{id}/submission/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID, err := request.ID(r, "id", access.TaskNotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	p, _ := middlewarectx.PrincipalFrom(r.Context())

	sub, err := h.service.GetOwn(r.Context(), p, taskID)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, sub)
}
