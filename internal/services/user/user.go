// Package user содержит административные операции над пользователями:
// список, создание, смену пароля, назначение профиля и журнал действий.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/password"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/pagination"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

const (
	// NotFoundList пустой список пользователей
	NotFoundList = "Users not found"
	// NotFound пользователь не найден
	NotFound = "User not found"
	// ProfileNotFound профиль не найден
	ProfileNotFound = "Profile not found"
	// AlreadyAssigned профиль уже назначен пользователю
	AlreadyAssigned = "The profile has already been added to the user"
	// Exists имя или почта заняты
	Exists = "A user with that username or email already exists."
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	ListUsers(ctx context.Context, f models.UserFilter, p models.Pager) ([]models.User, int, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
	UserHasProfile(ctx context.Context, userID, profileID uuid.UUID) (bool, error)
	AddUserProfile(ctx context.Context, userID, profileID uuid.UUID) error
	ListActionLogs(ctx context.Context, f models.ActionLogFilter, p models.Pager) ([]models.UserActionLog, int, error)
}

// TokenRevoker отзывает выданные пользователю токены.
type TokenRevoker interface {
	RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReadCache кеширующий слой чтения.
type ReadCache interface {
	List(ctx context.Context, kind readcache.Kind, l lang.Lang, page int, query any, load readcache.Loader) (json.RawMessage, error)
}

// Invalidator сбрасывает кеш списка пользователей.
type Invalidator interface {
	Users(ctx context.Context)
}

// Service бизнес-логика пользователей.
type Service struct {
	repo    Repository
	revoker TokenRevoker
	cache   ReadCache
	inv     Invalidator
	log     *slog.Logger
}

// New создает Service.
func New(repo Repository, revoker TokenRevoker, cache ReadCache, inv Invalidator, log *slog.Logger) *Service {
	return &Service{repo: repo, revoker: revoker, cache: cache, inv: inv, log: log}
}

// List административный список пользователей с фильтрами и числом профилей.
func (s *Service) List(ctx context.Context, l lang.Lang, f models.UserFilter, pager models.Pager) (json.RawMessage, error) {
	const op = "user.List"
	return s.cache.List(ctx, readcache.AdminUsers, l, pager.Number, f, func(ctx context.Context) (any, error) {
		users, count, err := s.repo.ListUsers(ctx, f, pager)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := pagination.Check(count, pager, NotFoundList); err != nil {
			return nil, err
		}
		return views.NewPage(count, pager, views.AdminUsers(users)), nil
	})
}

// Create создает пользователя и назначает ему профили.
func (s *Service) Create(ctx context.Context, in models.CreateUserInput) (views.CreatedUser, error) {
	const op = "user.Create"

	if !password.Valid(in.Password) {
		return views.CreatedUser{}, apperr.Validation("password", password.TooShort)
	}
	for _, profileID := range in.Profiles {
		exists, err := s.repo.ProfileExists(ctx, profileID)
		if err != nil {
			return views.CreatedUser{}, fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return views.CreatedUser{}, apperr.Validation("profiles",
				fmt.Sprintf("Invalid pk %q - object does not exist.", profileID))
		}
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return views.CreatedUser{}, fmt.Errorf("%s: %w", op, err)
	}
	u := models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		ProfileIDs:   in.Profiles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if apperr.IsUniqueViolation(err) {
			return views.CreatedUser{}, apperr.Conflict(Exists)
		}
		return views.CreatedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	s.inv.Users(ctx)
	return views.NewUser(u), nil
}

// SetPassword меняет пароль и отзывает все ранее выданные токены пользователя.
func (s *Service) SetPassword(ctx context.Context, in models.SetPasswordInput) error {
	const op = "user.SetPassword"

	if !password.Valid(in.NewPassword) {
		return apperr.Validation("new_password", password.TooShort)
	}
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return apperr.Validation("user_id", "Must be a valid UUID.")
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	hash, err := password.GetHash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	revoked, err := s.revoker.RevokeUserTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user tokens revoked",
		slog.String("user_id", userID.String()), slog.Int64("count", revoked))
	return nil
}

// SetProfile назначает профиль пользователю. Повторное назначение дает конфликт.
func (s *Service) SetProfile(ctx context.Context, in models.SetProfileInput) error {
	const op = "user.SetProfile"

	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return apperr.Validation("user_id", "Must be a valid UUID.")
	}
	profileID, err := uuid.Parse(in.ProfileID)
	if err != nil {
		return apperr.Validation("profile_id", "Must be a valid UUID.")
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	exists, err := s.repo.ProfileExists(ctx, profileID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return apperr.NotFound(ProfileNotFound)
	}

	linked, err := s.repo.UserHasProfile(ctx, userID, profileID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if linked {
		return apperr.Conflict(AlreadyAssigned)
	}
	if err := s.repo.AddUserProfile(ctx, userID, profileID); err != nil {
		if apperr.IsUniqueViolation(err) {
			return apperr.Conflict(AlreadyAssigned)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.inv.Users(ctx)
	return nil
}

// Logs журнал действий пользователей, по умолчанию по времени.
func (s *Service) Logs(ctx context.Context, f models.ActionLogFilter, pager models.Pager) (views.Page, error) {
	const op = "user.Logs"

	logs, count, err := s.repo.ListActionLogs(ctx, f, pager)
	if err != nil {
		return views.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 || pager.Number != 1 {
		if err := pagination.Check(count, pager, pagination.InvalidPage); err != nil {
			return views.Page{}, err
		}
	}
	return views.NewPage(count, pager, views.ActionLogs(logs)), nil
}

func (s *Service) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "user.getUser"
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(NotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
