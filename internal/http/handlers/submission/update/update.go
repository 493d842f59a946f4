// Package update меняет комментарий своего ответа: PUT целиком, PATCH частично.
package update

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
	Update(ctx context.Context, p models.Principal, taskID uuid.UUID, in models.SubmissionInput, partial bool) (views.SubmissionComment, error)
}

// Handler изменение ответа.
type Handler struct {
	log     *slog.Logger
	service Service
	partial bool
}

// New создает Handler. partial соответствует PATCH.
func New(log *slog.Logger, service Service, partial bool) *Handler {
	return &Handler{log: log, service: service, partial: partial}
}

// ServeHTTP godoc
// @Summary Изменить свой ответ
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID задания"
// @Param request body models.SubmissionInput true "Комментарий"
// @Success 200 {object} views.SubmissionComment
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/tasks/{id}/submission/ [put]
// @Router /{lang}/tasks/{id}/submission/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID, err := request.ID(r, "id", access.TaskNotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	var in models.SubmissionInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	p, _ := middlewarectx.PrincipalFrom(r.Context())

	updated, err := h.service.Update(r.Context(), p, taskID, in, h.partial)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("submission updated", slog.String("task_id", taskID.String()), slog.Bool("partial", h.partial))
	render.JSON(w, r, updated)
}
