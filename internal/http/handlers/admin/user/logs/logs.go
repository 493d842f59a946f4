// Package logs журнал действий пользователей.
package logs

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// Service журнал действий.
type Service interface {
	Logs(ctx context.Context, f models.ActionLogFilter, pager models.Pager) (views.Page, error)
}

// Handler журнал действий.
type Handler struct {
	log      *slog.Logger
	service  Service
	pageSize int
}

// New создает Handler.
func New(log *slog.Logger, service Service, pageSize int) *Handler {
	return &Handler{log: log, service: service, pageSize: pageSize}
}

// ServeHTTP godoc
// @Summary Журнал действий
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param user query string false "Имя пользователя содержит"
// @Param ordering query string false "id, timestamp"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/users/logs/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.user.logs"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pager, err := request.Pager(r, h.pageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	page, err := h.service.Logs(r.Context(), request.ActionLogFilter(r), pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, page)
}
