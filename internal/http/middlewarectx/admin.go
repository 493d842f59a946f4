package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
)

// Denied доступ только для администраторов
const Denied = "You do not have permission to perform this action."

// AdminOnly пропускает дальше только администраторов. Ставится после JWTMiddleware.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("op", "middlewarectx.AdminOnly"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			p, ok := PrincipalFrom(r.Context())
			if !ok {
				response.Fail(w, r, log, apperr.Unauthorized(NotAuthenticated))
				return
			}
			if !p.IsAdmin() {
				log.Warn("non-admin access attempt", slog.String("username", p.Username))
				response.Fail(w, r, log, apperr.Forbidden(Denied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
