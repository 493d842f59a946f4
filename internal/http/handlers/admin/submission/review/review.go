// Package review выставляет статус и комментарий проверки ответа.
package review

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/http/request"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/submission"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// Service проверка ответов.
type Service interface {
	Review(ctx context.Context, id uuid.UUID, in models.ReviewInput) (views.Review, error)
}

// Handler проверка ответа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверить ответ
// @Description Сохраняет прежнее состояние в истории и выставляет новый статус.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lang path string true "Язык" Enums(ru, en)
// @Param id path string true "ID ответа"
// @Param request body models.ReviewInput true "Результат проверки"
// @Success 200 {object} views.Review
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{lang}/admin/submissions/{id}/ [put]
// @Router /{lang}/admin/submissions/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.submission.review"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id", submission.NotFound)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	var in models.ReviewInput
	if err := request.Decode(r, &in); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	result, err := h.service.Review(r.Context(), id, in)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("submission reviewed", slog.String("id", id.String()), slog.String("status", in.Status))
	render.JSON(w, r, result)
}
