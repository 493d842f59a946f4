package middlewarectx

import (
	"net/http"

	"github.com/magabrotheeeer/task-platform/internal/services/actionlog"
)

// ActionContext передает метод и путь запроса в записи журнала действий.
func ActionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := actionlog.WithRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
