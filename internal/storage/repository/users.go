package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

var userOrdering = map[string]string{
	"id":             "u.id",
	"username":       "u.username",
	"email":          "u.email",
	"profiles_count": "profiles_count",
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, username, email, password_hash, is_staff, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя вместе с назначенными профилями.
func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, username, email, password_hash, is_staff, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
		return nil, notFound(op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT profile_id FROM user_profiles WHERE user_id = $1 ORDER BY profile_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var profileID uuid.UUID
		if err := rows.Scan(&profileID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.ProfileIDs = append(u.ProfileIDs, profileID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.ProfilesCount = len(u.ProfileIDs)
	return u, nil
}

// CreateUser сохраняет пользователя и его связи с профилями в одной транзакции.
func (s *Storage) CreateUser(ctx context.Context, u models.User) error {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO users (id, username, email, password_hash, is_staff, created_at)
				  VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query,
			u.ID, u.Username, u.Email, u.PasswordHash, u.IsStaff, u.CreatedAt); err != nil {
			return err
		}
		for _, profileID := range u.ProfileIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_profiles (user_id, profile_id) VALUES ($1, $2)`, u.ID, profileID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	const op = "storage.UpdatePassword"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return notFound(op, sql.ErrNoRows)
	}
	return nil
}

// UserHasProfile проверяет связь пользователя с профилем.
func (s *Storage) UserHasProfile(ctx context.Context, userID, profileID uuid.UUID) (bool, error) {
	const op = "storage.UserHasProfile"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1 AND profile_id = $2)`,
		userID, profileID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AddUserProfile связывает пользователя с профилем. Повтор нарушает уникальность пары.
func (s *Storage) AddUserProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	const op = "storage.AddUserProfile"
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, profile_id) VALUES ($1, $2)`, userID, profileID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает страницу пользователей с числом профилей и общее количество.
func (s *Storage) ListUsers(ctx context.Context, f models.UserFilter, p models.Pager) ([]models.User, int, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	q := &query{}
	if f.ID != nil {
		q.Where("u.id = %s", *f.ID)
	}
	if f.Username != "" {
		q.Where("u.username = %s", f.Username)
	}
	if f.Email != "" {
		q.Where("LOWER(u.email) = %s", strings.ToLower(f.Email))
	}
	q.Count("COUNT(up.profile_id)", f.ProfilesCount)

	from := ` FROM users u LEFT JOIN user_profiles up ON up.user_id = u.id` +
		q.WhereSQL() + ` GROUP BY u.id` + q.HavingSQL()

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM (SELECT u.id`+from+`) AS sub`, q.args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	list := `SELECT u.id, u.username, u.email, u.is_staff, u.created_at, COUNT(up.profile_id) AS profiles_count` +
		from + orderBy(f.Ordering, userOrdering, "", "u.id") + q.Page(p)
	rows, err := s.DB.QueryContext(ctx, list, q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsStaff, &u.CreatedAt, &u.ProfilesCount); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, count, nil
}
