package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		wantStatus   int
		wantContains string
	}{
		{
			name: "успешный вход",
			body: `{"username":"admin","password":"admin12345"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin", "admin12345").Return("jwt-token", "admin", nil).Once()
			},
			wantStatus:   http.StatusOK,
			wantContains: `"access":"jwt-token"`,
		},
		{
			name:         "пустой пароль",
			body:         `{"username":"admin"}`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"password":"This field is required."`,
		},
		{
			name: "неверные учетные данные",
			body: `{"username":"admin","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin", "wrong").
					Return("", "", apperr.Unauthorized("No active account found with the given credentials")).Once()
			},
			wantStatus:   http.StatusUnauthorized,
			wantContains: "No active account found",
		},
		{
			name: "сервис авторизации недоступен",
			body: `{"username":"admin","password":"admin12345"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin", "admin12345").Return("", "", errors.New("unavailable")).Once()
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContains)
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_ResponseShape(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, "alice", "pw").Return("tok", "user", nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"alice","password":"pw"}`))
	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, Response{Access: "tok", Role: "user", Username: "alice"}, resp)
}
