package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

const submissionColumns = `s.id, s.task_id, s.user_id, s.comment, s.admin_comment, s.status, s.created_at, s.updated_at`

var submissionOrdering = map[string]string{
	"status": "s.status",
}

func scanSubmission(row rowScanner) (models.Submission, error) {
	var sub models.Submission
	err := row.Scan(&sub.ID, &sub.TaskID, &sub.UserID, &sub.Comment, &sub.AdminComment, &sub.Status,
		&sub.CreatedAt, &sub.UpdatedAt)
	return sub, err
}

// GetUserSubmission возвращает ответ пользователя на задание.
func (s *Storage) GetUserSubmission(ctx context.Context, userID, taskID uuid.UUID) (*models.Submission, error) {
	const op = "storage.GetUserSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sub, err := scanSubmission(s.DB.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions s WHERE s.user_id = $1 AND s.task_id = $2`, userID, taskID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return &sub, nil
}

// GetSubmission возвращает ответ с историей изменений в хронологическом порядке.
func (s *Storage) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	const op = "storage.GetSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sub, err := scanSubmission(s.DB.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions s WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, submission_id, previous_comment, previous_admin_comment,
		    previous_status, changed_at
		FROM submission_history
		WHERE submission_id = $1
		ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	sub.History = []models.SubmissionHistory{}
	for rows.Next() {
		var h models.SubmissionHistory
		if err := rows.Scan(&h.ID, &h.SubmissionID, &h.PreviousComment, &h.PreviousAdminComment,
			&h.PreviousStatus, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sub.History = append(sub.History, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CreateSubmission сохраняет ответ и его связь с заданием.
// Второй ответ того же пользователя на задание нарушает уникальность (user_id, task_id).
func (s *Storage) CreateSubmission(ctx context.Context, sub models.Submission) error {
	const op = "storage.CreateSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO submissions (id, task_id, user_id, comment, admin_comment, status, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, query, sub.ID, sub.TaskID, sub.UserID, sub.Comment, sub.AdminComment,
			string(sub.Status), sub.CreatedAt, sub.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_submissions (task_id, submission_id) VALUES ($1, $2)`, sub.TaskID, sub.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubmission блокирует строку ответа, пишет снимок текущего состояния
// в историю и сохраняет результат apply. Все в одной транзакции.
func (s *Storage) UpdateSubmission(ctx context.Context, id uuid.UUID, apply func(models.Submission) models.Submission) (*models.Submission, error) {
	const op = "storage.UpdateSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var updated models.Submission
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanSubmission(tx.QueryRowContext(ctx,
			`SELECT `+submissionColumns+` FROM submissions s WHERE s.id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		snap := current.Snapshot()
		if _, err := tx.ExecContext(ctx, `INSERT INTO submission_history
			    (id, submission_id, previous_comment, previous_admin_comment, previous_status, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), snap.SubmissionID, snap.PreviousComment, snap.PreviousAdminComment,
			string(snap.PreviousStatus), now); err != nil {
			return err
		}

		updated = apply(current)
		updated.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `UPDATE submissions
			SET comment = $1, admin_comment = $2, status = $3, updated_at = $4
			WHERE id = $5`,
			updated.Comment, updated.AdminComment, string(updated.Status), updated.UpdatedAt, id)
		return err
	})
	if err != nil {
		return nil, notFound(op, err)
	}
	return &updated, nil
}

// DeleteSubmission удаляет ответ вместе с историей и возвращает его.
func (s *Storage) DeleteSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	const op = "storage.DeleteSubmission"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sub, err := scanSubmission(s.DB.QueryRowContext(ctx,
		`DELETE FROM submissions s WHERE s.id = $1 RETURNING `+submissionColumns, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return &sub, nil
}

// ListSubmissions возвращает все ответы по фильтру, упорядоченные для группировки по заданиям.
func (s *Storage) ListSubmissions(ctx context.Context, f models.SubmissionFilter) ([]models.Submission, error) {
	const op = "storage.ListSubmissions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	q := &query{}
	if f.ID != nil {
		q.Where("s.id = %s", *f.ID)
	}
	if f.TaskID != nil {
		q.Where("s.task_id = %s", *f.TaskID)
	}
	if f.UserID != nil {
		q.Where("s.user_id = %s", *f.UserID)
	}
	if f.Status != nil {
		q.Where("s.status = %s", string(*f.Status))
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+submissionColumns+` FROM submissions s`+q.WhereSQL()+
		orderBy(f.Ordering, submissionOrdering, "", "s.id"), q.args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var subs []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
