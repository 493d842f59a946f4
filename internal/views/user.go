package views

import (
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

// AdminUser элемент списка пользователей.
type AdminUser struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	ProfilesCount int       `json:"profiles_count"`
}

// CreatedUser созданный пользователь.
type CreatedUser struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Profiles []uuid.UUID `json:"profiles"`
}

// ActionLog запись журнала действий.
type ActionLog struct {
	ID        uuid.UUID      `json:"id"`
	User      uuid.UUID      `json:"user"`
	Username  string         `json:"username"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	ExtraData map[string]any `json:"extra_data"`
}

// AdminUsers список пользователей.
func AdminUsers(us []models.User) []AdminUser {
	return mapSlice(us, func(u models.User) AdminUser {
		return AdminUser{ID: u.ID, Username: u.Username, Email: u.Email, ProfilesCount: u.ProfilesCount}
	})
}

// NewUser представление созданного пользователя.
func NewUser(u models.User) CreatedUser {
	profiles := u.ProfileIDs
	if profiles == nil {
		profiles = []uuid.UUID{}
	}
	return CreatedUser{ID: u.ID, Username: u.Username, Email: u.Email, Profiles: profiles}
}

// ActionLogs список записей журнала.
func ActionLogs(ls []models.UserActionLog) []ActionLog {
	return mapSlice(ls, func(l models.UserActionLog) ActionLog {
		return ActionLog{
			ID:        l.ID,
			User:      l.UserID,
			Username:  l.Username,
			Action:    l.Action,
			Timestamp: l.Timestamp,
			ExtraData: l.ExtraData,
		}
	})
}
