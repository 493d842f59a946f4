// Package read отдает карточку профиля на выбранном языке.
package read

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

// Service кешированное чтение профилей.
type Service interface {
	Get(ctx context.Context, p models.Principal, l lang.Lang, id uuid.UUID) (json.RawMessage, error)
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
// @Summary Профиль
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID профиля"
// @Success 200 {object} views.ProfileDetailRU
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/profiles/{id}/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", profile.NotFoundDetail)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	p, _ := middlewarectx.PrincipalFrom(r.Context())

	data, err := h.service.Get(r.Context(), p, request.Lang(r), id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	response.Raw(w, http.StatusOK, data)
}
