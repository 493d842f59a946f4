// Package list отдает публичный список профилей на выбранном языке.
package list

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Service кешированное чтение профилей.
type Service interface {
	List(ctx context.Context, p models.Principal, l lang.Lang, pager models.Pager) (json.RawMessage, error)
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
// @Summary Список профилей
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param page query int false "Номер страницы"
// @Success 200 {object} views.Page
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/profiles/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pager, err := request.Pager(r, h.pageSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	p, _ := middlewarectx.PrincipalFrom(r.Context())

	data, err := h.service.List(r.Context(), p, request.Lang(r), pager)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Debug("profiles listed", slog.Int("page", pager.Number))
	response.Raw(w, http.StatusOK, data)
}
