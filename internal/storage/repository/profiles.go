package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

var profileOrdering = map[string]string{
	"id":          "p.id",
	"tasks_count": "tasks_count",
}

const profileColumns = `p.id, p.description_ru, p.description_en, p.description_ru_html, p.description_en_html,
	p.created_at, COUNT(tp.task_id) AS tasks_count,
	COALESCE(STRING_AGG(tp.task_id::text, ',' ORDER BY tp.task_id), '') AS task_ids`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var taskIDs string
	if err := row.Scan(&p.ID, &p.DescriptionRU, &p.DescriptionEN, &p.DescriptionRUHTML, &p.DescriptionENHTML,
		&p.CreatedAt, &p.TasksCount, &taskIDs); err != nil {
		return p, err
	}
	ids, err := parseUUIDs(taskIDs)
	if err != nil {
		return p, err
	}
	p.TaskIDs = ids
	return p, nil
}

// parseUUIDs разбирает список идентификаторов, собранный STRING_AGG.
func parseUUIDs(s string) ([]uuid.UUID, error) {
	if s == "" {
		return []uuid.UUID{}, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListProfiles возвращает страницу профилей с числом заданий и общее количество.
func (s *Storage) ListProfiles(ctx context.Context, f models.ProfileFilter, p models.Pager) ([]models.Profile, int, error) {
	const op = "storage.ListProfiles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	q := &query{}
	if f.ID != nil {
		q.Where("p.id = %s", *f.ID)
	}
	q.Count("COUNT(tp.task_id)", f.TasksCount)

	from := ` FROM profiles p LEFT JOIN task_profiles tp ON tp.profile_id = p.id` +
		q.WhereSQL() + ` GROUP BY p.id` + q.HavingSQL()

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM (SELECT p.id`+from+`) AS sub`, q.args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+profileColumns+from+orderBy(f.Ordering, profileOrdering, "", "p.id")+q.Page(p), q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return profiles, count, nil
}

// GetProfile возвращает профиль с заданиями и файлами.
func (s *Storage) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const op = "storage.GetProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+profileColumns+`
		FROM profiles p LEFT JOIN task_profiles tp ON tp.profile_id = p.id
		WHERE p.id = $1
		GROUP BY p.id`, id)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, notFound(op, err)
	}

	files, err := profileFiles(ctx, s.DB, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile.Files = files
	return &profile, nil
}

// ProfileExists проверяет наличие профиля.
func (s *Storage) ProfileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "storage.ProfileExists"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateProfile сохраняет профиль и записи его файлов в одной транзакции.
func (s *Storage) CreateProfile(ctx context.Context, p models.Profile, files []models.ProfileFile) (uuid.UUID, error) {
	const op = "storage.CreateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return uuid.Nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO profiles (id, description_ru, description_en, description_ru_html, description_en_html)
				  VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.DescriptionRU, p.DescriptionEN, p.DescriptionRUHTML, p.DescriptionENHTML); err != nil {
			return err
		}
		return insertProfileFiles(ctx, tx, p.ID, files)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return p.ID, nil
}

// UpdateProfile сохраняет описания профиля. При replaceFiles прежние записи файлов
// удаляются и возвращаются вызывающему, новые вставляются в той же транзакции.
func (s *Storage) UpdateProfile(ctx context.Context, p models.Profile, files []models.ProfileFile, replaceFiles bool) ([]models.ProfileFile, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var removed []models.ProfileFile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE profiles
				  SET description_ru = $1, description_en = $2, description_ru_html = $3, description_en_html = $4
				  WHERE id = $5`
		result, err := tx.ExecContext(ctx, query,
			p.DescriptionRU, p.DescriptionEN, p.DescriptionRUHTML, p.DescriptionENHTML, p.ID)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		if !replaceFiles {
			return nil
		}

		rows, err := tx.QueryContext(ctx,
			`DELETE FROM profile_files WHERE profile_id = $1 RETURNING id, profile_id, path, size, uploaded_at`, p.ID)
		if err != nil {
			return err
		}
		if removed, err = scanFiles(rows); err != nil {
			return err
		}
		return insertProfileFiles(ctx, tx, p.ID, files)
	})
	if err != nil {
		return nil, notFound(op, err)
	}
	return removed, nil
}

// DeleteProfile удаляет профиль вместе с заданиями и файлами и возвращает удаленное.
func (s *Storage) DeleteProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const op = "storage.DeleteProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	deleted := &models.Profile{ID: id}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT id FROM tasks WHERE profile_id = $1
			UNION SELECT task_id FROM task_profiles WHERE profile_id = $1`, id)
		if err != nil {
			return err
		}
		ids, err := scanIDs(rows)
		if err != nil {
			return err
		}
		deleted.TaskIDs = ids

		if deleted.Files, err = profileFiles(ctx, tx, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return nil, notFound(op, err)
	}
	return deleted, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func profileFiles(ctx context.Context, db querier, profileID uuid.UUID) ([]models.ProfileFile, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, profile_id, path, size, uploaded_at
		FROM profile_files WHERE profile_id = $1 ORDER BY uploaded_at, id`, profileID)
	if err != nil {
		return nil, err
	}
	return scanFiles(rows)
}

func scanFiles(rows *sql.Rows) ([]models.ProfileFile, error) {
	defer func() {
		_ = rows.Close()
	}()
	files := []models.ProfileFile{}
	for rows.Next() {
		var f models.ProfileFile
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.Path, &f.Size, &f.UploadedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer func() {
		_ = rows.Close()
	}()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertProfileFiles(ctx context.Context, tx *sql.Tx, profileID uuid.UUID, files []models.ProfileFile) error {
	for _, f := range files {
		id := f.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profile_files (id, profile_id, path, size) VALUES ($1, $2, $3, $4)`,
			id, profileID, f.Path, f.Size); err != nil {
			return err
		}
	}
	return nil
}
