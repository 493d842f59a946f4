// Package setpassword меняет пароль пользователя и отзывает его токены.
package setpassword

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
	SetPassword(ctx context.Context, in models.SetPasswordInput) error
}

// Handler смена пароля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сменить пароль пользователя
// @Description Все выданные пользователю токены отзываются.
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param request body models.SetPasswordInput true "Новый пароль"
// @Success 205
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/users/set-password/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.user.setpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.SetPasswordInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if err := h.service.SetPassword(r.Context(), in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("password changed", slog.String("user_id", in.UserID))
	w.WriteHeader(http.StatusResetContent)
}
