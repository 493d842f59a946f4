// Package actionlog пишет журнал действий пользователей.
package actionlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Repository хранилище журнала.
type Repository interface {
	CreateActionLog(ctx context.Context, entry models.UserActionLog) error
}

type requestKey struct{}

type requestInfo struct {
	method string
	path   string
}

// WithRequest сохраняет метод и путь запроса для последующих записей журнала.
func WithRequest(ctx context.Context, method, path string) context.Context {
	return context.WithValue(ctx, requestKey{}, requestInfo{method: method, path: path})
}

// Recorder пишет записи журнала. Ошибка записи не прерывает запрос.
type Recorder struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewRecorder создает Recorder.
func NewRecorder(repo Repository, log *slog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, now: time.Now}
}

// Record добавляет запись с действием action от имени userID.
func (r *Recorder) Record(ctx context.Context, userID uuid.UUID, action string) {
	const op = "actionlog.Record"

	entry := models.UserActionLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Timestamp: r.now().UTC(),
		ExtraData: map[string]any{},
	}
	if info, ok := ctx.Value(requestKey{}).(requestInfo); ok {
		entry.ExtraData["path"] = info.path
		entry.ExtraData["method"] = info.method
	}

	if err := r.repo.CreateActionLog(ctx, entry); err != nil {
		r.log.Warn("failed to write action log",
			slog.String("op", op),
			slog.String("user_id", userID.String()),
			slog.String("action", action),
			sl.Err(err))
	}
}

// Recordf добавляет запись, форматируя действие.
func (r *Recorder) Recordf(ctx context.Context, userID uuid.UUID, format string, args ...any) {
	r.Record(ctx, userID, fmt.Sprintf(format, args...))
}
