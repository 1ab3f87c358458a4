package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventmanagement/internal/domain"
)

type confirmationTokenRepository struct {
	DB *sql.DB
}

// NewConfirmationTokenRepository returns a domain.ConfirmationTokenRepository implemented with Postgres.
func NewConfirmationTokenRepository(db *sql.DB) domain.ConfirmationTokenRepository {
	return &confirmationTokenRepository{DB: db}
}

func (r *confirmationTokenRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO confirmation_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, userID, tokenHash, expiresAt)
	return err
}

func (r *confirmationTokenRepository) Consume(ctx context.Context, tokenHash string) (string, bool, error) {
	var id, userID string
	query := `
		SELECT id, user_id FROM confirmation_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		LIMIT 1
	`
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(&id, &userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM confirmation_tokens WHERE id = $1`, id); err != nil {
		return "", false, err
	}
	return userID, true, nil
}
