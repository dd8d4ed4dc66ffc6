package repository

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const wishlistColumns = `id, title, created_by, created_at, completed, completed_by, completed_at`

// WishlistRepository handles database operations for wishlist items
type WishlistRepository struct {
	db *pgxpool.Pool
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Create inserts a new wishlist item
func (r *WishlistRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO wishlist (` + wishlistColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.Title, string(item.CreatedBy), item.CreatedAt,
		item.Completed, identityPtr(item.CompletedBy), item.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return nil
}

// List returns every wishlist item, newest first
func (r *WishlistRepository) List(ctx context.Context) ([]*models.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+wishlistColumns+` FROM wishlist ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	defer rows.Close()

	items := []*models.WishlistItem{}
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return items, nil
}

// Update locks the item, applies fn and writes the completion state back
func (r *WishlistRepository) Update(ctx context.Context, id string, fn func(item *models.WishlistItem) error) (*models.WishlistItem, error) {
	var updated *models.WishlistItem
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		item, err := scanWishlistItem(tx.QueryRow(ctx, `SELECT `+wishlistColumns+` FROM wishlist WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(err, "wishlist item")
		}
		if err := fn(item); err != nil {
			return err
		}
		if err := item.Validate(); err != nil {
			return err
		}
		query := `UPDATE wishlist SET completed = $2, completed_by = $3, completed_at = $4 WHERE id = $1`
		if _, err := tx.Exec(ctx, query, id, item.Completed, identityPtr(item.CompletedBy), item.CompletedAt); err != nil {
			return fmt.Errorf("failed to update wishlist item: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a wishlist item
func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM wishlist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("wishlist item %w", ErrNotFound)
	}
	return nil
}

func scanWishlistItem(row pgx.Row) (*models.WishlistItem, error) {
	var (
		item        models.WishlistItem
		createdBy   string
		completedBy *string
	)
	err := row.Scan(&item.ID, &item.Title, &createdBy, &item.CreatedAt,
		&item.Completed, &completedBy, &item.CompletedAt)
	if err != nil {
		return nil, err
	}
	item.CreatedBy = models.Identity(createdBy)
	if completedBy != nil {
		id := models.Identity(*completedBy)
		item.CompletedBy = &id
	}
	return &item, nil
}

func identityPtr(id *models.Identity) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}
