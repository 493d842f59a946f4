// Package create создает задание в профиле.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Service изменение заданий.
type Service interface {
	Create(ctx context.Context, l lang.Lang, in models.TaskInput) (any, error)
}

// Handler создание задания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать задание
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param request body models.TaskInput true "Задание"
// @Success 201 {object} views.AdminTaskDetailRU
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/tasks/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.task.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.TaskInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	created, err := h.service.Create(r.Context(), request.Lang(r), in)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("task created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
