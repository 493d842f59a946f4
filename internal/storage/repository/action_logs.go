package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

var actionLogOrdering = map[string]string{
	"id":        "l.id",
	"timestamp": "l.timestamp",
}

// CreateActionLog добавляет запись в журнал действий.
func (s *Storage) CreateActionLog(ctx context.Context, entry models.UserActionLog) error {
	const op = "storage.CreateActionLog"

	extra := entry.ExtraData
	if extra == nil {
		extra = map[string]any{}
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_action_logs (id, user_id, action, timestamp, extra_data) VALUES ($1, $2, $3, $4, $5)`,
		id, entry.UserID, entry.Action, entry.Timestamp, string(data)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListActionLogs возвращает страницу журнала действий, по умолчанию по времени.
func (s *Storage) ListActionLogs(ctx context.Context, f models.ActionLogFilter, p models.Pager) ([]models.UserActionLog, int, error) {
	const op = "storage.ListActionLogs"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	q := &query{}
	if f.User != "" {
		q.Contains("u.username", f.User)
	}
	from := ` FROM user_action_logs l JOIN users u ON u.id = l.user_id` + q.WhereSQL()

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+from, q.args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT l.id, l.user_id, u.username, l.action, l.timestamp, l.extra_data`+from+
			orderBy(f.Ordering, actionLogOrdering, "l.timestamp", "l.id")+q.Page(p), q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var logs []models.UserActionLog
	for rows.Next() {
		var entry models.UserActionLog
		var extra []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Username, &entry.Action, &entry.Timestamp, &extra); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(extra, &entry.ExtraData); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return logs, count, nil
}
