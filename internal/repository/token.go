package repository

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository handles database operations for device push tokens
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert registers a token or moves it to another identity
func (r *TokenRepository) Upsert(ctx context.Context, t *models.DeviceToken) error {
	if err := t.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO device_tokens (token, user_id, created_at, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, last_updated = EXCLUDED.last_updated
	`
	_, err := r.db.Exec(ctx, query, t.Token, string(t.User), t.CreatedAt, t.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

// Delete removes a token. Deleting an unknown token is not an error.
func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM device_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete device token: %w", err)
	}
	return nil
}

// ListByUser returns the tokens registered for one identity
func (r *TokenRepository) ListByUser(ctx context.Context, user models.Identity) ([]string, error) {
	return r.list(ctx, `SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY created_at`, string(user))
}

// ListAll returns every registered token
func (r *TokenRepository) ListAll(ctx context.Context) ([]string, error) {
	return r.list(ctx, `SELECT token FROM device_tokens ORDER BY created_at`)
}

func (r *TokenRepository) list(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get device tokens: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}
	return tokens, nil
}
