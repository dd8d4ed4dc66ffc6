package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dateColumns = `id, title, date, location, category, rating, description,
	comments, voice_notes, photos, favorited, created_by, created_at,
	from_invitation, invitation_id, invitation_data`

// DateRepository handles database operations for dates
type DateRepository struct {
	db *pgxpool.Pool
}

// NewDateRepository creates a new date repository
func NewDateRepository(db *pgxpool.Pool) *DateRepository {
	return &DateRepository{db: db}
}

// Create inserts a new date
func (r *DateRepository) Create(ctx context.Context, d *models.DateEvent) error {
	return insertDate(ctx, r.db, d)
}

// GetByID retrieves a date by ID
func (r *DateRepository) GetByID(ctx context.Context, id string) (*models.DateEvent, error) {
	query := `SELECT ` + dateColumns + ` FROM dates WHERE id = $1`
	d, err := scanDate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "date")
	}
	return d, nil
}

// List returns every date, newest first
func (r *DateRepository) List(ctx context.Context) ([]*models.DateEvent, error) {
	query := `SELECT ` + dateColumns + ` FROM dates ORDER BY date DESC`
	return r.list(ctx, query)
}

// ListBetween returns dates whose time lies in (from, to]
func (r *DateRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.DateEvent, error) {
	query := `SELECT ` + dateColumns + ` FROM dates WHERE date > $1 AND date <= $2 ORDER BY date`
	return r.list(ctx, query, from, to)
}

func (r *DateRepository) list(ctx context.Context, query string, args ...any) ([]*models.DateEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get dates: %w", err)
	}
	defer rows.Close()

	dates := []*models.DateEvent{}
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dates: %w", err)
	}
	return dates, nil
}

// Update locks the date row, applies fn to a copy and writes the result back.
// It returns the row as it was before and after the change. Concurrent
// appends to the comment, voice note and photo lists serialize on the lock.
func (r *DateRepository) Update(ctx context.Context, id string, fn func(d *models.DateEvent) error) (before, after *models.DateEvent, err error) {
	err = inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `SELECT ` + dateColumns + ` FROM dates WHERE id = $1 FOR UPDATE`
		current, err := scanDate(tx.QueryRow(ctx, query, id))
		if err != nil {
			return notFound(err, "date")
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.ID = current.ID
		if err := next.Validate(); err != nil {
			return err
		}

		comments, err := marshalJSON(next.Comments)
		if err != nil {
			return err
		}
		voiceNotes, err := marshalJSON(next.VoiceNotes)
		if err != nil {
			return err
		}
		photos, err := marshalJSON(next.Photos)
		if err != nil {
			return err
		}

		update := `
			UPDATE dates
			SET title = $2, date = $3, location = $4, category = $5, rating = $6,
				description = $7, comments = $8, voice_notes = $9, photos = $10,
				favorited = $11
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, update,
			next.ID, next.Title, next.Date, next.Location, next.Category, next.Rating,
			next.Description, comments, voiceNotes, photos, next.Favorited,
		)
		if err != nil {
			return fmt.Errorf("failed to update date: %w", err)
		}

		before, after = current, next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func insertDate(ctx context.Context, q querier, d *models.DateEvent) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Comments == nil {
		d.Comments = []models.Comment{}
	}
	if d.VoiceNotes == nil {
		d.VoiceNotes = []models.VoiceNote{}
	}
	if d.Photos == nil {
		d.Photos = []models.Photo{}
	}

	comments, err := marshalJSON(d.Comments)
	if err != nil {
		return err
	}
	voiceNotes, err := marshalJSON(d.VoiceNotes)
	if err != nil {
		return err
	}
	photos, err := marshalJSON(d.Photos)
	if err != nil {
		return err
	}
	var invitationData []byte
	if d.InvitationData != nil {
		if invitationData, err = marshalJSON(d.InvitationData); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO dates (` + dateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = q.Exec(ctx, query,
		d.ID, d.Title, d.Date, d.Location, d.Category, d.Rating, d.Description,
		comments, voiceNotes, photos, d.Favorited, string(d.CreatedBy), d.CreatedAt,
		d.FromInvitation, d.InvitationID, invitationData,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("date already exists: %w", ErrConflict)
		}
		return fmt.Errorf("failed to create date: %w", err)
	}
	return nil
}

func scanDate(row pgx.Row) (*models.DateEvent, error) {
	var (
		d                                 models.DateEvent
		createdBy                         string
		comments, voiceNotes, photos, inv []byte
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.Date, &d.Location, &d.Category, &d.Rating, &d.Description,
		&comments, &voiceNotes, &photos, &d.Favorited, &createdBy, &d.CreatedAt,
		&d.FromInvitation, &d.InvitationID, &inv,
	)
	if err != nil {
		return nil, err
	}
	d.CreatedBy = models.Identity(createdBy)

	d.Comments = []models.Comment{}
	d.VoiceNotes = []models.VoiceNote{}
	d.Photos = []models.Photo{}
	if err := unmarshalJSON(comments, &d.Comments); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(voiceNotes, &d.VoiceNotes); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(photos, &d.Photos); err != nil {
		return nil, err
	}
	if len(inv) > 0 {
		d.InvitationData = &models.InvitationData{}
		if err := unmarshalJSON(inv, d.InvitationData); err != nil {
			return nil, err
		}
	}
	return &d, nil
}
