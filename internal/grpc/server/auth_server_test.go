package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/task-platform/internal/grpc/authpb"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// MockAuthService - мок для AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *MockAuthService) RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ AuthServiceInterface = (*MockAuthService)(nil)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuthServer_Login(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *MockAuthService)
		wantCode codes.Code
		wantResp *authpb.LoginResponse
	}{
		{
			name: "success",
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "secret").Return("token", models.RoleUser, nil).Once()
			},
			wantCode: codes.OK,
			wantResp: &authpb.LoginResponse{Token: "token", Role: models.RoleUser},
		},
		{
			name: "invalid credentials",
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "secret").Return("", "", apperr.Unauthorized("bad credentials")).Once()
			},
			wantCode: codes.Unauthenticated,
		},
		{
			name: "storage failure is hidden",
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "secret").Return("", "", errors.New("db down")).Once()
			},
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)

			resp, err := NewAuthServer(svc, newNoopLogger()).Login(context.Background(),
				&authpb.LoginRequest{Username: "alice", Password: "secret"})

			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.Equal(t, tt.wantResp, resp)
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthServer_ValidateToken(t *testing.T) {
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("ValidateToken", mock.Anything, "tok").
			Return(&models.Principal{UserID: userID, Username: "alice", Role: models.RoleAdmin}, nil).Once()

		resp, err := NewAuthServer(svc, newNoopLogger()).ValidateToken(context.Background(), &authpb.ValidateTokenRequest{Token: "tok"})

		require.NoError(t, err)
		assert.Equal(t, &authpb.ValidateTokenResponse{
			UserID: userID.String(), Username: "alice", Role: models.RoleAdmin, Valid: true,
		}, resp)
	})

	t.Run("revoked keeps message", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("ValidateToken", mock.Anything, "tok").Return(nil, apperr.Unauthorized("Token is blacklisted")).Once()

		_, err := NewAuthServer(svc, newNoopLogger()).ValidateToken(context.Background(), &authpb.ValidateTokenRequest{Token: "tok"})

		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.Unauthenticated, st.Code())
		assert.Equal(t, "Token is blacklisted", st.Message())
	})
}

func TestAuthServer_RevokeUserTokens(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("RevokeUserTokens", mock.Anything, userID).Return(int64(2), nil).Once()

		resp, err := NewAuthServer(svc, newNoopLogger()).RevokeUserTokens(context.Background(),
			&authpb.RevokeUserTokensRequest{UserID: userID.String()})

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Revoked)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := new(MockAuthService)

		_, err := NewAuthServer(svc, newNoopLogger()).RevokeUserTokens(context.Background(),
			&authpb.RevokeUserTokensRequest{UserID: "nope"})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		svc.AssertNotCalled(t, "RevokeUserTokens", mock.Anything, mock.Anything)
	})
}
