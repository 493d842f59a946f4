// Package models содержит доменные модели платформы заданий: пользователей,
// профили, задания, ответы и журнал действий, а также фильтры списков
// и входные структуры запросов.
package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RoleAdmin роль администратора (is_staff)
	RoleAdmin = "admin"
	// RoleUser роль обычного пользователя
	RoleUser = "user"
)

// User представляет пользователя платформы.
type User struct {
	ID            uuid.UUID   // Уникальный идентификатор пользователя
	Username      string      // Имя пользователя (уникальное)
	Email         string      // Электронная почта (уникальная)
	PasswordHash  string      // Хэш пароля пользователя
	IsStaff       bool        // Администратор
	ProfileIDs    []uuid.UUID // Назначенные профили
	ProfilesCount int         // Количество назначенных профилей
	CreatedAt     time.Time
}

// Role возвращает роль пользователя для токена.
func (u User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}

// Principal аутентифицированный пользователь запроса.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// IsAdmin сообщает, что запрос выполняет администратор.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CreateUserInput данные для создания пользователя администратором.
type CreateUserInput struct {
	Username string      `json:"username" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Profiles []uuid.UUID `json:"profiles"`
}

// SetPasswordInput данные для смены пароля пользователя.
type SetPasswordInput struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	NewPassword string `json:"new_password" validate:"required"`
}

// SetProfileInput данные для назначения профиля пользователю.
type SetProfileInput struct {
	ProfileID string `json:"profile_id" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
}
