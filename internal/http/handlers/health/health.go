// Package health отвечает на проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
)

// Checker зависимость, без которой сервис не может отвечать.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler проверка готовности.
type Handler struct {
	log      *slog.Logger
	checkers map[string]Checker
}

// New создает Handler; ключи checkers попадают в тело ответа.
func New(log *slog.Logger, checkers map[string]Checker) *Handler {
	return &Handler{log: log, checkers: checkers}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := map[string]string{"status": response.StatusOK}
	for name, c := range h.checkers {
		if err := c.Ping(r.Context()); err != nil {
			log.Error("dependency is not ready", slog.String("dependency", name), sl.Err(err))
			status[name] = response.StatusError
			status["status"] = response.StatusError
			continue
		}
		status[name] = response.StatusOK
	}

	if status["status"] != response.StatusOK {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}
