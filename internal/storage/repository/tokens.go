package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveOutstandingToken учитывает выданный токен, чтобы его можно было отозвать.
func (s *Storage) SaveOutstandingToken(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	const op = "storage.SaveOutstandingToken"
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO outstanding_tokens (jti, user_id, expires_at) VALUES ($1, $2, $3)`,
		jti, userID, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTokenBlacklisted сообщает, отозван ли токен.
func (s *Storage) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	const op = "storage.IsTokenBlacklisted"
	var revoked bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE jti = $1)`, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return revoked, nil
}

// BlacklistUserTokens отзывает все действующие токены пользователя и возвращает их число.
func (s *Storage) BlacklistUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage.BlacklistUserTokens"
	result, err := s.DB.ExecContext(ctx, `INSERT INTO blacklisted_tokens (jti)
		SELECT jti FROM outstanding_tokens WHERE user_id = $1 AND expires_at > NOW()
		ON CONFLICT (jti) DO NOTHING`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
