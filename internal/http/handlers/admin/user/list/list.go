// Package list административный список пользователей с числом назначенных профилей.
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

// Service чтение пользователей.
type Service interface {
	List(ctx context.Context, l lang.Lang, f models.UserFilter, pager models.Pager) (json.RawMessage, error)
}

// Handler список пользователей.
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
// @Summary Пользователи
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param username query string false "Имя пользователя"
// @Param email query string false "Почта"
// @Param profiles_count_gte query int false "Минимум профилей"
// @Param profiles_count_lte query int false "Максимум профилей"
// @Param ordering query string false "id, username, email, profiles_count"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/users/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := request.UserFilter(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	pager, err := request.Pager(r, h.pageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	data, err := h.service.List(r.Context(), request.Lang(r), filter, pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	response.Raw(w, http.StatusOK, data)
}
