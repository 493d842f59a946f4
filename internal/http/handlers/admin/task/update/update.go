// Package update изменяет задание: PUT целиком, PATCH частично.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/access"
)

// Service изменение заданий.
type Service interface {
	Update(ctx context.Context, l lang.Lang, id uuid.UUID, in models.TaskInput, partial bool) (any, error)
}

// Handler изменение задания.
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
// @Summary Изменить задание
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID задания"
// @Param request body models.TaskInput true "Задание"
// @Success 200 {object} views.AdminTaskDetailRU
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/tasks/{id}/ [put]
// @Router /{lang}/admin/tasks/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.task.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", access.TaskNotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	var in models.TaskInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	updated, err := h.service.Update(r.Context(), request.Lang(r), id, in, h.partial)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("task updated", slog.String("id", id.String()), slog.Bool("partial", h.partial))
	render.JSON(w, r, updated)
}
