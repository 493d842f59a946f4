// Package list административный список профилей с фильтрами по числу заданий.
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

// Service чтение профилей для администратора.
type Service interface {
	AdminList(ctx context.Context, l lang.Lang, f models.ProfileFilter, pager models.Pager) (json.RawMessage, error)
}

// Handler список профилей.
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
// @Summary Профили (администратор)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id query string false "ID профиля"
// @Param tasks_count_gte query int false "Минимум заданий"
// @Param tasks_count_lte query int false "Максимум заданий"
// @Param ordering query string false "id, tasks_count"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/profiles/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := request.ProfileFilter(r)
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
