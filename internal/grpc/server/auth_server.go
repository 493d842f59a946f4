// Package server реализует gRPC-сервер для авторизационного сервиса.
//
// AuthServer обрабатывает запросы входа, проверки JWT и отзыва токенов,
// логирует операции и делегирует бизнес-логику сервису auth.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/task-platform/internal/grpc/authpb"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// AuthServiceInterface бизнес-логика авторизации.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
	RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AuthServer реализует gRPC-сервис авторизации
type AuthServer struct {
	authService AuthServiceInterface
	log         *slog.Logger
}

var _ authpb.AuthServiceServer = (*AuthServer)(nil)

// NewAuthServer создает новый экземпляр AuthServer с указанным сервисом аутентификации и логгером.
func NewAuthServer(authService AuthServiceInterface, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		authService: authService,
		log:         logger,
	}
}

// Login проверяет пользователя и генерирует JWT
func (s *AuthServer) Login(ctx context.Context, req *authpb.LoginRequest) (*authpb.LoginResponse, error) {
	s.log.Info("Login request", slog.String("username", req.Username))

	token, role, err := s.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.log.Error("Login failed", slog.String("username", req.Username), sl.Err(err))
		return nil, toStatus(err)
	}
	return &authpb.LoginResponse{Token: token, Role: role}, nil
}

// ValidateToken проверяет валидность JWT и возвращает данные пользователя
func (s *AuthServer) ValidateToken(ctx context.Context, req *authpb.ValidateTokenRequest) (*authpb.ValidateTokenResponse, error) {
	principal, err := s.authService.ValidateToken(ctx, req.Token)
	if err != nil {
		s.log.Warn("Invalid token", sl.Err(err))
		return nil, toStatus(err)
	}
	return &authpb.ValidateTokenResponse{
		UserID:   principal.UserID.String(),
		Username: principal.Username,
		Role:     principal.Role,
		Valid:    true,
	}, nil
}

// RevokeUserTokens отзывает все токены пользователя
func (s *AuthServer) RevokeUserTokens(ctx context.Context, req *authpb.RevokeUserTokensRequest) (*authpb.RevokeUserTokensResponse, error) {
	s.log.Info("RevokeUserTokens request", slog.String("user_id", req.UserID))

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid user id")
	}
	n, err := s.authService.RevokeUserTokens(ctx, userID)
	if err != nil {
		s.log.Error("RevokeUserTokens failed", slog.String("user_id", req.UserID), sl.Err(err))
		return nil, toStatus(err)
	}
	return &authpb.RevokeUserTokensResponse{Revoked: n}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, apperr.Message(err))
	case errors.Is(err, apperr.ErrValidation):
		return status.Error(codes.InvalidArgument, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, apperr.Message(err))
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
