// Package middlewarectx содержит HTTP middleware платформы: проверку JWT
// через gRPC-сервис авторизации, доступ только для администраторов,
// ограничение частоты запросов, метрики и контекст журнала действий.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-platform/internal/http/response"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

const (
	// NotAuthenticated заголовок Authorization отсутствует
	NotAuthenticated = "Authentication credentials were not provided."
	// InvalidToken токен не прошел проверку
	InvalidToken = "Given token not valid for any token type"
)

type principalKey struct{}

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

// WithPrincipal кладет пользователя запроса в контекст.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom достает пользователя запроса из контекста.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет пользователя в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(authClient Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Fail(w, r, log, apperr.Unauthorized(NotAuthenticated))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			principal, err := authClient.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				if !errors.Is(err, apperr.ErrUnauthorized) {
					log.Error("token validation failed", sl.Err(err))
					err = apperr.Unauthorized(InvalidToken)
				}
				response.Fail(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *principal)))
		})
	}
}
