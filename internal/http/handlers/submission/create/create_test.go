package create

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, p models.Principal, taskID uuid.UUID, in models.SubmissionInput) (views.SubmissionComment, error) {
	args := m.Called(ctx, p, taskID, in)
	return args.Get(0).(views.SubmissionComment), args.Error(1)
}

func TestSubmissionCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	taskID := uuid.New()
	principal := models.Principal{UserID: uuid.New(), Username: "alice", Role: models.RoleUser}
	comment := "https://github.com/alice/solution"

	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		wantStatus   int
		wantContains string
	}{
		{
			name: "ответ создан",
			body: `{"comment":"` + comment + `"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, taskID, models.SubmissionInput{Comment: &comment}).
					Return(views.SubmissionComment{Comment: comment}, nil).Once()
			},
			wantStatus:   http.StatusCreated,
			wantContains: comment,
		},
		{
			name: "задание закрыто",
			body: `{"comment":"late"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, taskID, mock.Anything).
					Return(views.SubmissionComment{}, apperr.Forbidden("This task is already completed and cannot be accessed.")).Once()
			},
			wantStatus:   http.StatusForbidden,
			wantContains: "already completed",
		},
		{
			name: "повторный ответ",
			body: `{"comment":"again"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, taskID, mock.Anything).
					Return(views.SubmissionComment{}, apperr.Conflict("The user has already answered the task")).Once()
			},
			wantStatus:   http.StatusConflict,
			wantContains: "already answered",
		},
		{
			name:         "битый JSON",
			body:         `{"comment":`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "JSON parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/ru/tasks/"+taskID.String()+"/submission/", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("lang", "ru")
			rctx.URLParams.Add("id", taskID.String())
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithPrincipal(ctx, principal))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContains)
			svc.AssertExpectations(t)
		})
	}
}
