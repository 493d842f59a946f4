// Package list ответы, сгруппированные по заданиям.
package list

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

// Service чтение ответов для администратора.
type Service interface {
	AdminList(ctx context.Context, f models.SubmissionFilter, pager models.Pager) (views.Page, error)
}

// Handler список ответов.
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
// @Summary Ответы по заданиям
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param task_id query string false "ID задания"
// @Param user_id query string false "ID пользователя"
// @Param status query string false "Статус" Enums(WAITING, ACCEPTED, REJECTED)
// @Param ordering query string false "status"
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/submissions/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.submission.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := request.SubmissionFilter(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	pager, err := request.Pager(r, h.pageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	page, err := h.service.AdminList(r.Context(), filter, pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, page)
}
