// Package create принимает ответ пользователя на задание.
package create

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
	Create(ctx context.Context, p models.Principal, taskID uuid.UUID, in models.SubmissionInput) (views.SubmissionComment, error)
}

// Handler создание ответа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ответить на задание
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID задания"
// @Param request body models.SubmissionInput true "Комментарий"
// @Success 201 {object} views.SubmissionComment
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /{lang}/tasks/{id}/submission/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.create"

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

	created, err := h.service.Create(r.Context(), p, taskID, in)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("submission created", slog.String("task_id", taskID.String()), slog.String("user_id", p.UserID.String()))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
