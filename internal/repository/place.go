package repository

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const placeColumns = `id, name, type, rating, location, notes, price_range, visited, added_by, created_at`

// PlaceRepository handles database operations for favorite places
type PlaceRepository struct {
	db *pgxpool.Pool
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// Create inserts a new favorite place
func (r *PlaceRepository) Create(ctx context.Context, p *models.FavoritePlace) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO favorite_places (` + placeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Type, p.Rating, p.Location, p.Notes, p.PriceRange,
		p.Visited, string(p.AddedBy), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// List returns favorite places, newest first. An empty placeType lists all.
func (r *PlaceRepository) List(ctx context.Context, placeType string) ([]*models.FavoritePlace, error) {
	query := `SELECT ` + placeColumns + ` FROM favorite_places
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, placeType)
	if err != nil {
		return nil, fmt.Errorf("failed to get places: %w", err)
	}
	defer rows.Close()

	places := []*models.FavoritePlace{}
	for rows.Next() {
		var (
			p       models.FavoritePlace
			addedBy string
		)
		err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Rating, &p.Location, &p.Notes,
			&p.PriceRange, &p.Visited, &addedBy, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		p.AddedBy = models.Identity(addedBy)
		places = append(places, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return places, nil
}

// Delete removes a favorite place
func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM favorite_places WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("place %w", ErrNotFound)
	}
	return nil
}
