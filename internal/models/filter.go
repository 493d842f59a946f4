package models

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
)

// CountFilter условия на вычисляемое количество: равно, не меньше, не больше.
type CountFilter struct {
	Eq  *int `json:"eq,omitempty"`
	Gte *int `json:"gte,omitempty"`
	Lte *int `json:"lte,omitempty"`
}

// ProfileFilter фильтры списка профилей.
type ProfileFilter struct {
	ID         *uuid.UUID  `json:"id,omitempty"`
	TasksCount CountFilter `json:"tasks_count,omitzero"`
	Ordering   string      `json:"ordering,omitempty"`
}

// TaskFilter фильтры списка заданий.
type TaskFilter struct {
	Lang             lang.Lang   `json:"-"`
	ID               *uuid.UUID  `json:"id,omitempty"`
	ProfileID        *uuid.UUID  `json:"profile_id,omitempty"`
	Title            string      `json:"title,omitempty"`
	Status           *TaskStatus `json:"status,omitempty"`
	Type             *TaskType   `json:"type,omitempty"`
	SubmissionsCount CountFilter `json:"submissions_count,omitzero"`
	Ordering         string      `json:"ordering,omitempty"`
}

// UserFilter фильтры списка пользователей.
type UserFilter struct {
	ID            *uuid.UUID  `json:"id,omitempty"`
	Username      string      `json:"username,omitempty"`
	Email         string      `json:"email,omitempty"`
	ProfilesCount CountFilter `json:"profiles_count,omitzero"`
	Ordering      string      `json:"ordering,omitempty"`
}

// SubmissionFilter фильтры списка ответов.
type SubmissionFilter struct {
	ID       *uuid.UUID        `json:"id,omitempty"`
	TaskID   *uuid.UUID        `json:"task_id,omitempty"`
	UserID   *uuid.UUID        `json:"user_id,omitempty"`
	Status   *SubmissionStatus `json:"status,omitempty"`
	Ordering string            `json:"ordering,omitempty"`
}

// ActionLogFilter фильтры журнала действий.
type ActionLogFilter struct {
	User     string `json:"user,omitempty"`
	Ordering string `json:"ordering,omitempty"`
}

// Pager параметры постраничной выдачи.
type Pager struct {
	Number int
	Size   int
	// URL абсолютный адрес запроса, из которого строятся ссылки next и previous
	URL string
}

// Offset смещение первой записи страницы.
func (p Pager) Offset() int {
	return (p.Number - 1) * p.Size
}

// LastPage номер последней страницы для count записей.
func (p Pager) LastPage(count int) int {
	if count <= 0 || p.Size <= 0 {
		return 1
	}
	return (count + p.Size - 1) / p.Size
}

// Link возвращает адрес страницы n; для первой страницы параметр page удаляется.
func (p Pager) Link(n int) string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
