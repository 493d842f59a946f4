// Package read административная карточка профиля.
package read

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
	"github.com/magabrotheeeer/task-platform/internal/services/profile"
)

// Service чтение профиля для администратора.
type Service interface {
	AdminGet(ctx context.Context, l lang.Lang, id uuid.UUID) (any, error)
}

// Handler карточка профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль (администратор)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID профиля"
// @Success 200 {object} views.AdminProfileDetailRU
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/profiles/{id}/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", profile.NotFoundDetail)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	data, err := h.service.AdminGet(r.Context(), request.Lang(r), id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, data)
}
