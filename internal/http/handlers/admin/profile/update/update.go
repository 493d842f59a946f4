// Package update изменяет профиль: PUT целиком, PATCH частично.
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
	"github.com/magabrotheeeer/task-platform/internal/services/profile"
)

// Service изменение профилей.
type Service interface {
	Update(ctx context.Context, l lang.Lang, id uuid.UUID, in models.ProfileInput, partial bool) (any, error)
}

// Handler изменение профиля.
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
// @Summary Изменить профиль
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID профиля"
// @Param description_ru formData string false "Описание (ru), markdown"
// @Param description_en formData string false "Описание (en), markdown"
// @Param uploaded_files formData file false "Новый набор файлов"
// @Success 200 {object} views.AdminProfileDetailRU
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/profiles/{id}/ [put]
// @Router /{lang}/admin/profiles/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", profile.NotFoundDetail)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	in, err := request.ProfileInput(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	updated, err := h.service.Update(r.Context(), request.Lang(r), id, in, h.partial)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("profile updated", slog.String("id", id.String()), slog.Bool("replace_files", in.ReplaceFiles))
	render.JSON(w, r, updated)
}
