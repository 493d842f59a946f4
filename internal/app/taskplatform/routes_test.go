package taskplatform

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/http/response"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	media := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(media, "profiles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(media, "profiles", "brief.txt"), []byte("brief"), 0o600))

	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		MediaDir:  media,
		PageSize:  10,
		RateLimit: config.RateLimit{RPS: 100, Burst: 100},
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantError  string
		wantBody   string
	}{
		{
			name:       "unsupported language",
			method:     http.MethodGet,
			path:       "/api/v1/de/profiles/",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "public list requires token",
			method:     http.MethodGet,
			path:       "/api/v1/ru/profiles/",
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.NotAuthenticated,
		},
		{
			name:       "admin list requires token",
			method:     http.MethodGet,
			path:       "/api/v1/en/admin/users/",
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.NotAuthenticated,
		},
		{
			name:       "submission route requires token",
			method:     http.MethodPatch,
			path:       "/api/v1/en/tasks/7b0c4a3e-4a59-4c1e-9f64-0d3c1d9b3a11/submission/",
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.NotAuthenticated,
		},
		{
			name:       "media served from file store",
			method:     http.MethodGet,
			path:       "/media/profiles/brief.txt",
			wantStatus: http.StatusOK,
			wantBody:   "brief",
		},
		{
			name:       "health without checkers",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body.Error)
			}
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}
