package repository

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invitationColumns = `id, from_user, to_user, title, date, start_time, end_time,
	location, dress_code, description, itinerary, status, acceptance_note,
	accepted_at, viewed_by, created_at`

// InvitationRepository handles database operations for invitations
type InvitationRepository struct {
	db *pgxpool.Pool
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create inserts a new invitation
func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if inv.Itinerary == nil {
		inv.Itinerary = []models.ItineraryItem{}
	}
	if inv.ViewedBy == nil {
		inv.ViewedBy = []models.Identity{}
	}
	itinerary, err := marshalJSON(inv.Itinerary)
	if err != nil {
		return err
	}
	viewedBy, err := marshalJSON(inv.ViewedBy)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = r.db.Exec(ctx, query,
		inv.ID, string(inv.From), string(inv.To), inv.Title, inv.Date, inv.StartTime, inv.EndTime,
		inv.Location, inv.DressCode, inv.Description, itinerary, string(inv.Status),
		inv.AcceptanceNote, inv.AcceptedAt, viewedBy, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetByID retrieves an invitation by ID
func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "invitation")
	}
	return inv, nil
}

// List returns every invitation, newest first
func (r *InvitationRepository) List(ctx context.Context) ([]*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}
	return invitations, nil
}

// Accept stores the accepted invitation and the date it produced in one
// transaction. The status update only matches a pending row, so a second
// acceptance racing this one gets ErrConflict and creates nothing.
func (r *InvitationRepository) Accept(ctx context.Context, inv *models.Invitation, derived *models.DateEvent) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE invitations
			SET status = $2, acceptance_note = $3, accepted_at = $4
			WHERE id = $1 AND status = $5
		`
		result, err := tx.Exec(ctx, query,
			inv.ID, string(models.InvitationAccepted), inv.AcceptanceNote, inv.AcceptedAt,
			string(models.InvitationPending),
		)
		if err != nil {
			return fmt.Errorf("failed to accept invitation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("invitation %s: %w", inv.ID, ErrConflict)
		}
		return insertDate(ctx, tx, derived)
	})
}

// DeletePending removes an invitation that is still pending
func (r *InvitationRepository) DeletePending(ctx context.Context, id string) error {
	query := `DELETE FROM invitations WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, string(models.InvitationPending))
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s: %w", id, ErrConflict)
	}
	return nil
}

// UpdateViewedBy replaces the set of identities that have seen the invitation
func (r *InvitationRepository) UpdateViewedBy(ctx context.Context, id string, viewedBy []models.Identity) error {
	data, err := marshalJSON(viewedBy)
	if err != nil {
		return err
	}
	result, err := r.db.Exec(ctx, `UPDATE invitations SET viewed_by = $2 WHERE id = $1`, id, data)
	if err != nil {
		return fmt.Errorf("failed to update invitation viewed_by: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation %w", ErrNotFound)
	}
	return nil
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var (
		inv                 models.Invitation
		from, to, status    string
		itinerary, viewedBy []byte
	)
	err := row.Scan(
		&inv.ID, &from, &to, &inv.Title, &inv.Date, &inv.StartTime, &inv.EndTime,
		&inv.Location, &inv.DressCode, &inv.Description, &itinerary, &status,
		&inv.AcceptanceNote, &inv.AcceptedAt, &viewedBy, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.From = models.Identity(from)
	inv.To = models.Identity(to)
	inv.Status = models.InvitationStatus(status)

	inv.Itinerary = []models.ItineraryItem{}
	inv.ViewedBy = []models.Identity{}
	if err := unmarshalJSON(itinerary, &inv.Itinerary); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(viewedBy, &inv.ViewedBy); err != nil {
		return nil, err
	}
	return &inv, nil
}
