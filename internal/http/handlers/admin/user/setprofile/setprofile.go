// Package setprofile назначает пользователю профиль.
package setprofile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Service управление пользователями.
type Service interface {
	SetProfile(ctx context.Context, in models.SetProfileInput) error
}

// Handler назначение профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Назначить профиль пользователю
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param request body models.SetProfileInput true "Пользователь и профиль"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /{lang}/admin/users/set-profile/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.user.setprofile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.SetProfileInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if err := h.service.SetProfile(r.Context(), in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("profile assigned", slog.String("user_id", in.UserID), slog.String("profile_id", in.ProfileID))
	w.WriteHeader(http.StatusNoContent)
}
