package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

const taskColumns = `t.id, t.profile_id, t.title_ru, t.title_en, t.description_ru, t.description_en,
	t.description_ru_html, t.description_en_html, t.status, t.type, t.created_at,
	COUNT(ts.submission_id) AS submissions_count`

const taskFrom = ` FROM tasks t LEFT JOIN task_submissions ts ON ts.task_id = t.id`

// taskOrdering белый список сортировки; заголовок доступен только на языке запроса.
func taskOrdering(l lang.Lang) map[string]string {
	title := lang.Column("title", l)
	return map[string]string{
		"id":                "t.id",
		"status":            "t.status",
		"type":              "t.type",
		"submissions_count": "submissions_count",
		title:               "t." + title,
	}
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.ProfileID, &t.TitleRU, &t.TitleEN, &t.DescriptionRU, &t.DescriptionEN,
		&t.DescriptionRUHTML, &t.DescriptionENHTML, &t.Status, &t.Type, &t.CreatedAt, &t.SubmissionsCount)
	return t, err
}

// ListTasks возвращает страницу заданий с числом ответов и общее количество.
// Поиск по заголовку идет по колонке языка запроса.
func (s *Storage) ListTasks(ctx context.Context, f models.TaskFilter, p models.Pager) ([]models.Task, int, error) {
	const op = "storage.ListTasks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}
	l := f.Lang
	if l != lang.EN {
		l = lang.RU
	}

	q := &query{}
	if f.ID != nil {
		q.Where("t.id = %s", *f.ID)
	}
	if f.ProfileID != nil {
		q.Where("t.profile_id = %s", *f.ProfileID)
	}
	if f.Title != "" {
		q.Contains("t."+lang.Column("title", l), f.Title)
	}
	if f.Status != nil {
		q.Where("t.status = %s", string(*f.Status))
	}
	if f.Type != nil {
		q.Where("t.type = %s", string(*f.Type))
	}
	q.Count("COUNT(ts.submission_id)", f.SubmissionsCount)

	from := taskFrom + q.WhereSQL() + ` GROUP BY t.id` + q.HavingSQL()

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM (SELECT t.id`+from+`) AS sub`, q.args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+taskColumns+from+orderBy(f.Ordering, taskOrdering(l), "", "t.id")+q.Page(p), q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, count, nil
}

// GetTask возвращает задание с числом ответов и файлами его профиля.
func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	const op = "storage.GetTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTask(s.DB.QueryRowContext(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.id = $1 GROUP BY t.id`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	if t.ProfileFiles, err = profileFiles(ctx, s.DB, t.ProfileID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// GetTaskRef возвращает профиль и статус задания для проверки доступа.
func (s *Storage) GetTaskRef(ctx context.Context, id uuid.UUID) (*models.TaskRef, error) {
	const op = "storage.GetTaskRef"
	ref := &models.TaskRef{}
	if err := s.DB.QueryRowContext(ctx, `SELECT id, profile_id, status FROM tasks WHERE id = $1`, id).
		Scan(&ref.ID, &ref.ProfileID, &ref.Status); err != nil {
		return nil, notFound(op, err)
	}
	return ref, nil
}

// CreateTask сохраняет задание и его связь с профилем.
func (s *Storage) CreateTask(ctx context.Context, t models.Task) (uuid.UUID, error) {
	const op = "storage.CreateTask"
	if err := checkCtx(ctx, op); err != nil {
		return uuid.Nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO tasks (id, profile_id, title_ru, title_en, description_ru, description_en,
				      description_ru_html, description_en_html, status, type)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := tx.ExecContext(ctx, query,
			t.ID, t.ProfileID, t.TitleRU, t.TitleEN, t.DescriptionRU, t.DescriptionEN,
			t.DescriptionRUHTML, t.DescriptionENHTML, string(t.Status), string(t.Type)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_profiles (task_id, profile_id) VALUES ($1, $2)`, t.ID, t.ProfileID)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return t.ID, nil
}

// UpdateTask сохраняет задание; при смене профиля переносит связь.
func (s *Storage) UpdateTask(ctx context.Context, t models.Task) error {
	const op = "storage.UpdateTask"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE tasks
				  SET profile_id = $1, title_ru = $2, title_en = $3, description_ru = $4, description_en = $5,
				      description_ru_html = $6, description_en_html = $7, status = $8, type = $9
				  WHERE id = $10`
		result, err := tx.ExecContext(ctx, query,
			t.ProfileID, t.TitleRU, t.TitleEN, t.DescriptionRU, t.DescriptionEN,
			t.DescriptionRUHTML, t.DescriptionENHTML, string(t.Status), string(t.Type), t.ID)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM task_profiles WHERE task_id = $1 AND profile_id <> $2`, t.ID, t.ProfileID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO task_profiles (task_id, profile_id) VALUES ($1, $2)
			ON CONFLICT (task_id, profile_id) DO NOTHING`, t.ID, t.ProfileID)
		return err
	})
	if err != nil {
		return notFound(op, err)
	}
	return nil
}

// DeleteTask удаляет задание вместе с ответами и возвращает его профиль.
func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) (*models.TaskRef, error) {
	const op = "storage.DeleteTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	ref := &models.TaskRef{}
	if err := s.DB.QueryRowContext(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING id, profile_id, status`, id).
		Scan(&ref.ID, &ref.ProfileID, &ref.Status); err != nil {
		return nil, notFound(op, err)
	}
	return ref, nil
}
