package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"authgate/internal/database"
	"authgate/internal/models"
)

// TokenRepository handles database operations for password reset tokens
type TokenRepository struct {
	db database.DBTX
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert stores a reset token for an email, replacing any existing token
// for the same email in a single statement. Two concurrent reissues for
// one email therefore cannot leave two live rows.
func (r *TokenRepository) Upsert(ctx context.Context, email, token string, expiresAt time.Time) error {
	query := r.db.GetDialect().UpsertResetTokenQuery()
	if _, err := r.db.Exec(ctx, query, email, token, expiresAt); err != nil {
		return fmt.Errorf("failed to upsert reset token: %w", err)
	}
	return nil
}

// GetByToken retrieves a reset token row by its token string.
// Returns (nil, nil) when absent.
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*models.ResetToken, error) {
	query := `
		SELECT email, token, expires_at, created_at
		FROM password_reset_tokens
		WHERE token = ?
	`
	rt := &models.ResetToken{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.Email,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return rt, nil
}

// DeleteByToken removes a token row and reports whether a row was deleted.
// The rows-affected result is the single-use gate: when two requests race
// to consume the same token, only one sees true.
func (r *TokenRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	query := "DELETE FROM password_reset_tokens WHERE token = ?"
	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("failed to delete reset token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return rows > 0, nil
}

// DeleteExpired removes all expired token rows
func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	query := "DELETE FROM password_reset_tokens WHERE expires_at < ?"
	if _, err := r.db.Exec(ctx, query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return nil
}
