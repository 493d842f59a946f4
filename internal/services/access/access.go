// Package access проверяет доступ пользователя к заданию через назначенные ему профили.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

const (
	// TaskNotFound задание не найдено
	TaskNotFound = "No Task matches the given query."
	// Denied пользователь не связан с профилем задания
	Denied = "You do not have permission to perform this action."
)

// Repository сведения о заданиях и назначениях профилей.
type Repository interface {
	GetTaskRef(ctx context.Context, id uuid.UUID) (*models.TaskRef, error)
	UserHasProfile(ctx context.Context, userID, profileID uuid.UUID) (bool, error)
}

// Option меняет правила проверки доступа.
type Option func(*options)

type options struct {
	admin bool
}

// AllowAdmin пропускает администратора без назначения на профиль задания.
func AllowAdmin() Option {
	return func(o *options) { o.admin = true }
}

// Task возвращает задание, если p может с ним работать: задание существует,
// а пользователь назначен на профиль задания. Роль администратора учитывается
// только с AllowAdmin.
func Task(ctx context.Context, repo Repository, p models.Principal, taskID uuid.UUID, opts ...Option) (*models.TaskRef, error) {
	const op = "access.Task"

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	task, err := repo.GetTaskRef(ctx, taskID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(TaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if o.admin && p.IsAdmin() {
		return task, nil
	}

	linked, err := repo.UserHasProfile(ctx, p.UserID, task.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !linked {
		return nil, apperr.Forbidden(Denied)
	}
	return task, nil
}
