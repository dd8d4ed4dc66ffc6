package repository

import (
	"context"
	"fmt"
	"time"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SentNotificationRepository records scheduled notifications that have fired
type SentNotificationRepository struct {
	db *pgxpool.Pool
}

// NewSentNotificationRepository creates a new sent notification repository
func NewSentNotificationRepository(db *pgxpool.Pool) *SentNotificationRepository {
	return &SentNotificationRepository{db: db}
}

// Claim inserts the record unless its key already exists. It reports whether
// this caller won the key, so two overlapping runs never both dispatch.
func (r *SentNotificationRepository) Claim(ctx context.Context, rec *models.SentNotification) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	query := `
		INSERT INTO notifications_sent (key, date_id, sent_at, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, rec.Key, rec.DateID, rec.SentAt, rec.Type)
	if err != nil {
		return false, fmt.Errorf("failed to claim notification %s: %w", rec.Key, err)
	}
	return result.RowsAffected() == 1, nil
}

// Release removes a claimed key so a later run can retry it
func (r *SentNotificationRepository) Release(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM notifications_sent WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to release notification %s: %w", key, err)
	}
	return nil
}

// HasFired reports whether a record with key exists
func (r *SentNotificationRepository) HasFired(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications_sent WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification %s: %w", key, err)
	}
	return exists, nil
}

// ListSentBefore returns records sent strictly before cutoff
func (r *SentNotificationRepository) ListSentBefore(ctx context.Context, cutoff time.Time) ([]*models.SentNotification, error) {
	query := `
		SELECT key, date_id, sent_at, type
		FROM notifications_sent
		WHERE sent_at < $1
		ORDER BY sent_at
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get sent notifications: %w", err)
	}
	defer rows.Close()

	records := []*models.SentNotification{}
	for rows.Next() {
		var rec models.SentNotification
		if err := rows.Scan(&rec.Key, &rec.DateID, &rec.SentAt, &rec.Type); err != nil {
			return nil, fmt.Errorf("failed to scan sent notification: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sent notifications: %w", err)
	}
	return records, nil
}

// Delete removes the record with key
func (r *SentNotificationRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM notifications_sent WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", key, err)
	}
	return nil
}
