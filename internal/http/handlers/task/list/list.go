// Package list отдает задания профиля с фильтрами, сортировкой и пагинацией.
package list

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/profile"
)

// Service кешированное чтение заданий.
type Service interface {
	ListForProfile(ctx context.Context, p models.Principal, l lang.Lang, profileID uuid.UUID, f models.TaskFilter, pager models.Pager) (json.RawMessage, error)
}

// Handler задания профиля.
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
// @Summary Задания профиля
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID профиля"
// @Param title query string false "Поиск по названию"
// @Param status query string false "Статус" Enums(AVAILABLE, IN_PROGRESS, DONE, REWORK)
// @Param type query string false "Тип" Enums(FREE, SPECIFIC)
// @Param submissions_count_gte query int false "Минимум ответов"
// @Param ordering query string false "Сортировка"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/profiles/{id}/tasks/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID, err := request.ID(r, "id", profile.NotFoundDetail)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
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
	p, _ := middlewarectx.PrincipalFrom(r.Context())

	data, err := h.service.ListForProfile(r.Context(), p, request.Lang(r), profileID, filter, pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	response.Raw(w, http.StatusOK, data)
}
