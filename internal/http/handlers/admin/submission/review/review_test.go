package review

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

	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Review(ctx context.Context, id uuid.UUID, in models.ReviewInput) (views.Review, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(views.Review), args.Error(1)
}

func TestReviewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	id := uuid.New()

	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		wantStatus   int
		wantContains string
	}{
		{
			name: "ответ принят",
			body: `{"status":"ACCEPTED","admin_comment":"good job"}`,
			setupMock: func(m *MockService) {
				m.On("Review", mock.Anything, id, models.ReviewInput{Status: "ACCEPTED", AdminComment: "good job"}).
					Return(views.Review{Status: models.SubmissionAccepted, AdminComment: "good job"}, nil).Once()
			},
			wantStatus:   http.StatusOK,
			wantContains: `"ACCEPTED"`,
		},
		{
			name:         "недопустимый статус",
			body:         `{"status":"DONE","admin_comment":"x"}`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `\"DONE\" is not a valid choice.`,
		},
		{
			name:         "нет комментария",
			body:         `{"status":"REJECTED"}`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"admin_comment":"This field is required."`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/ru/admin/submissions/"+id.String()+"/", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id.String())
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContains)
			svc.AssertExpectations(t)
		})
	}
}
