package repository

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MilestoneRepository persists achieved milestones. The type column is
// unique, so each milestone is recorded at most once.
type MilestoneRepository struct {
	db *pgxpool.Pool
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Claim records the milestone unless its type was already achieved
func (r *MilestoneRepository) Claim(ctx context.Context, m *models.Milestone) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	query := `
		INSERT INTO milestones (id, type, title, icon, achieved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (type) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, m.ID, m.Type, m.Title, m.Icon, m.Achieved)
	if err != nil {
		return false, fmt.Errorf("failed to claim milestone %s: %w", m.Type, err)
	}
	return result.RowsAffected() == 1, nil
}

// Release forgets a milestone so it can be celebrated again
func (r *MilestoneRepository) Release(ctx context.Context, milestoneType string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM milestones WHERE type = $1`, milestoneType); err != nil {
		return fmt.Errorf("failed to release milestone %s: %w", milestoneType, err)
	}
	return nil
}

// List returns achieved milestones, newest first
func (r *MilestoneRepository) List(ctx context.Context) ([]*models.Milestone, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, title, icon, achieved FROM milestones ORDER BY achieved DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %w", err)
	}
	defer rows.Close()

	milestones := []*models.Milestone{}
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.Type, &m.Title, &m.Icon, &m.Achieved); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}
	return milestones, nil
}
