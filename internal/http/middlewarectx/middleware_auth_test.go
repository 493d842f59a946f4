package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/actionlog"
)

// Mock for AuthClient
type AuthClientMock struct {
	mock.Mock
}

func (m *AuthClientMock) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(*models.Principal)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		mockResp       *models.Principal
		mockErr        error
		wantStatusCode int
		wantBody       string
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       middlewarectx.NotAuthenticated,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       middlewarectx.NotAuthenticated,
		},
		{
			name:           "auth service unavailable",
			authHeader:     "Bearer token",
			mockErr:        errors.New("some grpc error"),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       middlewarectx.InvalidToken,
		},
		{
			name:           "revoked token",
			authHeader:     "Bearer token",
			mockErr:        apperr.Unauthorized("Token is blacklisted"),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       "Token is blacklisted",
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockResp:       &models.Principal{UserID: userID, Username: "testuser", Role: models.RoleUser},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthClientMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				p, ok := middlewarectx.PrincipalFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, userID, p.UserID)
				assert.Equal(t, "testuser", p.Username)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		principal  *models.Principal
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "regular user", principal: &models.Principal{Role: models.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "admin", principal: &models.Principal{Role: models.RoleAdmin}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodGet, "/admin/users/", nil)
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()

			middlewarectx.AdminOnly(newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(config.RateLimit{RPS: 0.001, Burst: 2}, newNoopLogger())(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

type recorderRepo struct {
	entries []models.UserActionLog
}

func (r *recorderRepo) CreateActionLog(_ context.Context, e models.UserActionLog) error {
	r.entries = append(r.entries, e)
	return nil
}

func TestActionContext(t *testing.T) {
	repo := &recorderRepo{}
	rec := actionlog.NewRecorder(repo, newNoopLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Record(r.Context(), uuid.New(), "Viewed profile list")
		w.WriteHeader(http.StatusOK)
	})

	middlewarectx.ActionContext(next).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/api/v1/ru/profiles/", nil))

	if assert.Len(t, repo.entries, 1) {
		assert.Equal(t, "/api/v1/ru/profiles/", repo.entries[0].ExtraData["path"])
		assert.Equal(t, http.MethodGet, repo.entries[0].ExtraData["method"])
	}
}
