// Package auth отвечает за вход пользователей, проверку JWT и отзыв токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/task-platform/internal/lib/password"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

const (
	// InvalidCredentials неверное имя пользователя или пароль
	InvalidCredentials = "No active account found with the given credentials"
	// InvalidToken токен не прошел проверку
	InvalidToken = "Given token not valid for any token type"
	// RevokedToken токен отозван
	RevokedToken = "Token is blacklisted"
)

// Repository описывает контракт хранилища пользователей и токенов.
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SaveOutstandingToken(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
	BlacklistUserTokens(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service выдает, проверяет и отзывает токены.
type Service struct {
	repo     Repository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает Service.
func New(repo Repository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{repo: repo, jwtMaker: jwtMaker, log: log}
}

// Login проверяет пароль и выдает токен доступа; токен учитывается как выданный.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", "", apperr.Unauthorized(InvalidCredentials)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", apperr.Unauthorized(InvalidCredentials)
	}

	token, claims, err := s.jwtMaker.GenerateToken(user.Username, user.Role(), user.ID.String())
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SaveOutstandingToken(ctx, claims.ID, user.ID, claims.ExpiresAt.Time); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role(), nil
}

// ValidateToken проверяет подпись, срок действия и отзыв токена.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.log.Debug("token rejected", slog.String("op", op), slog.String("reason", err.Error()))
		return nil, apperr.Unauthorized(InvalidToken)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized(InvalidToken)
	}

	revoked, err := s.repo.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, apperr.Unauthorized(RevokedToken)
	}
	return &models.Principal{UserID: userID, Username: claims.Username, Role: claims.Role}, nil
}

// RevokeUserTokens отзывает все выданные пользователю токены и возвращает их количество.
func (s *Service) RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "auth.RevokeUserTokens"
	n, err := s.repo.BlacklistUserTokens(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
