// Package list административный список заданий всех профилей.
package list

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Service чтение заданий для администратора.
type Service interface {
	AdminList(ctx context.Context, l lang.Lang, f models.TaskFilter, pager models.Pager) (json.RawMessage, error)
}

// Handler список заданий.
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
// @Summary Задания (администратор)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param profile_id query string false "ID профиля"
// @Param title query string false "Поиск по названию"
// @Param status query string false "Статус" Enums(AVAILABLE, IN_PROGRESS, DONE, REWORK)
// @Param type query string false "Тип" Enums(FREE, SPECIFIC)
// @Param ordering query string false "Сортировка"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/tasks/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.task.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := request.TaskFilter(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	pager, err := request.Pager(r, h.pageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	data, err := h.service.AdminList(r.Context(), request.Lang(r), filter, pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	response.Raw(w, http.StatusOK, data)
}
