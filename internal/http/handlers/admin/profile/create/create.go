// Package create создает профиль с описаниями и файлами (multipart/form-data).
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Service изменение профилей.
type Service interface {
	Create(ctx context.Context, l lang.Lang, in models.ProfileInput) (any, error)
}

// Handler создание профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать профиль
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param description_ru formData string true "Описание (ru), markdown"
// @Param description_en formData string true "Описание (en), markdown"
// @Param uploaded_files formData file false "Файлы профиля"
// @Success 201 {object} views.AdminProfileDetailRU
// @Failure 400 {object} response.ErrorResponse
// @Router /{lang}/admin/profiles/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	in, err := request.ProfileInput(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	created, err := h.service.Create(r.Context(), request.Lang(r), in)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("profile created", slog.Int("files", len(in.Files)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
