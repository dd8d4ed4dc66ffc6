package models

import (
	"fmt"
	"strings"
	"time"
)

// WishlistItem is a date idea the couple wants to do
type WishlistItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CreatedBy   Identity   `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	Completed   bool       `json:"completed"`
	CompletedBy *Identity  `json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Validate checks required fields before the item reaches the store
func (w *WishlistItem) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("%w: wishlist title is required", ErrInvalidModel)
	}
	if !w.CreatedBy.Valid() {
		return fmt.Errorf("%w: wishlist created_by %q", ErrInvalidModel, w.CreatedBy)
	}
	if w.Completed && (w.CompletedBy == nil || w.CompletedAt == nil) {
		return fmt.Errorf("%w: completed wishlist item needs completed_by and completed_at", ErrInvalidModel)
	}
	return nil
}

// Toggle flips the completion state on behalf of actor
func (w *WishlistItem) Toggle(actor Identity, now time.Time) {
	if w.Completed {
		w.Completed = false
		w.CompletedBy = nil
		w.CompletedAt = nil
		return
	}
	w.Completed = true
	w.CompletedBy = &actor
	w.CompletedAt = &now
}

// Place types accepted for favorite places
var PlaceTypes = []string{"restaurant", "cafe", "activity", "park", "other"}

// FavoritePlace is a place the couple liked
type FavoritePlace struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Rating     int       `json:"rating"`
	Location   string    `json:"location"`
	Notes      string    `json:"notes"`
	PriceRange string    `json:"price_range"`
	Visited    bool      `json:"visited"`
	AddedBy    Identity  `json:"added_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks required fields before the place reaches the store
func (p *FavoritePlace) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: place name is required", ErrInvalidModel)
	}
	known := false
	for _, t := range PlaceTypes {
		if p.Type == t {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: place type %q", ErrInvalidModel, p.Type)
	}
	if p.Rating < MinRating || p.Rating > MaxRating {
		return fmt.Errorf("%w: place rating must be between %d and %d", ErrInvalidModel, MinRating, MaxRating)
	}
	if !p.AddedBy.Valid() {
		return fmt.Errorf("%w: place added_by %q", ErrInvalidModel, p.AddedBy)
	}
	return nil
}
