// Package create создает пользователя и назначает ему профили.
package create

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

// Service управление пользователями.
type Service interface {
	Create(ctx context.Context, in models.CreateUserInput) (views.CreatedUser, error)
}

// Handler создание пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param request body models.CreateUserInput true "Пользователь"
// @Success 201 {object} views.CreatedUser
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /{lang}/admin/users/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.user.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.CreateUserInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user created", slog.String("username", in.Username))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
