package models

import (
	"time"

	"github.com/google/uuid"
)

// UserActionLog запись журнала действий пользователя.
type UserActionLog struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	Action    string
	Timestamp time.Time
	ExtraData map[string]any
}
