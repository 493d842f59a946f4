package request

import (
	"net/http"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

// TaskFilter фильтры списка заданий. Язык поиска по названию задает сервис.
func TaskFilter(r *http.Request) (models.TaskFilter, error) {
	q := NewQuery(r)
	f := models.TaskFilter{
		ID:               q.UUID("id"),
		ProfileID:        q.UUID("profile_id"),
		Title:            q.String("title"),
		Status:           Enum(q, "status", models.TaskStatus.Valid),
		Type:             Enum(q, "type", models.TaskType.Valid),
		SubmissionsCount: q.Count("submissions_count"),
		Ordering:         q.Ordering(),
	}
	return f, q.Err()
}

// ProfileFilter фильтры административного списка профилей.
func ProfileFilter(r *http.Request) (models.ProfileFilter, error) {
	q := NewQuery(r)
	f := models.ProfileFilter{
		ID:         q.UUID("id"),
		TasksCount: q.Count("tasks_count"),
		Ordering:   q.Ordering(),
	}
	return f, q.Err()
}

// UserFilter фильтры административного списка пользователей.
func UserFilter(r *http.Request) (models.UserFilter, error) {
	q := NewQuery(r)
	f := models.UserFilter{
		ID:            q.UUID("id"),
		Username:      q.String("username"),
		Email:         q.String("email"),
		ProfilesCount: q.Count("profiles_count"),
		Ordering:      q.Ordering(),
	}
	return f, q.Err()
}

// SubmissionFilter фильтры административного списка ответов.
func SubmissionFilter(r *http.Request) (models.SubmissionFilter, error) {
	q := NewQuery(r)
	f := models.SubmissionFilter{
		ID:       q.UUID("id"),
		TaskID:   q.UUID("task_id"),
		UserID:   q.UUID("user_id"),
		Status:   Enum(q, "status", models.SubmissionStatus.Valid),
		Ordering: q.Ordering(),
	}
	return f, q.Err()
}

// ActionLogFilter фильтры журнала действий.
func ActionLogFilter(r *http.Request) models.ActionLogFilter {
	q := NewQuery(r)
	return models.ActionLogFilter{User: q.String("user"), Ordering: q.Ordering()}
}
