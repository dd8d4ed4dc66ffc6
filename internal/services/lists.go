package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/models"

	"github.com/google/uuid"
)

// WishlistStore persists wishlist items
type WishlistStore interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	List(ctx context.Context) ([]*models.WishlistItem, error)
	Update(ctx context.Context, id string, fn func(item *models.WishlistItem) error) (*models.WishlistItem, error)
	Delete(ctx context.Context, id string) error
}

// WishlistService handles the shared wishlist
type WishlistService struct {
	items WishlistStore
	bus   Publisher
	now   func() time.Time
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(items WishlistStore, bus Publisher) *WishlistService {
	return &WishlistService{items: items, bus: publisherOrNop(bus), now: time.Now}
}

// Add puts a new idea on the wishlist
func (s *WishlistService) Add(ctx context.Context, actor models.Identity, title string) (*models.WishlistItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("title is required")
	}
	item := &models.WishlistItem{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedBy: actor,
		CreatedAt: s.now(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	s.bus.Publish(events.Change{Collection: events.Wishlist, Kind: events.Added, DocumentID: item.ID, After: item})
	return item, nil
}

// List returns the wishlist, newest first
func (s *WishlistService) List(ctx context.Context) ([]*models.WishlistItem, error) {
	return s.items.List(ctx)
}

// Toggle flips the completion of an item on behalf of actor
func (s *WishlistService) Toggle(ctx context.Context, id string, actor models.Identity) (*models.WishlistItem, error) {
	now := s.now()
	item, err := s.items.Update(ctx, id, func(item *models.WishlistItem) error {
		item.Toggle(actor, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Change{Collection: events.Wishlist, Kind: events.Modified, DocumentID: id, After: item})
	return item, nil
}

// Delete removes an item
func (s *WishlistService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Change{Collection: events.Wishlist, Kind: events.Removed, DocumentID: id})
	return nil
}

// PlaceStore persists favorite places
type PlaceStore interface {
	Create(ctx context.Context, p *models.FavoritePlace) error
	List(ctx context.Context, placeType string) ([]*models.FavoritePlace, error)
	Delete(ctx context.Context, id string) error
}

// PlaceService handles favorite places
type PlaceService struct {
	places PlaceStore
	bus    Publisher
	now    func() time.Time
}

// NewPlaceService creates a new place service
func NewPlaceService(places PlaceStore, bus Publisher) *PlaceService {
	return &PlaceService{places: places, bus: publisherOrNop(bus), now: time.Now}
}

// AddPlaceRequest represents a request to save a favorite place
type AddPlaceRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Rating     int    `json:"rating"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
	PriceRange string `json:"price_range"`
	Visited    bool   `json:"visited"`
}

// Add saves a favorite place
func (s *PlaceService) Add(ctx context.Context, actor models.Identity, req AddPlaceRequest) (*models.FavoritePlace, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationError("name is required")
	}
	if req.Type == "" {
		req.Type = "restaurant"
	}
	if !slices.Contains(models.PlaceTypes, req.Type) {
		return nil, validationError("type must be one of %s", strings.Join(models.PlaceTypes, ", "))
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, validationError("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	p := &models.FavoritePlace{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Rating:     req.Rating,
		Location:   req.Location,
		Notes:      req.Notes,
		PriceRange: req.PriceRange,
		Visited:    req.Visited,
		AddedBy:    actor,
		CreatedAt:  s.now(),
	}
	if err := s.places.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to add place: %w", err)
	}
	s.bus.Publish(events.Change{Collection: events.Places, Kind: events.Added, DocumentID: p.ID, After: p})
	return p, nil
}

// List returns favorite places, optionally filtered by type
func (s *PlaceService) List(ctx context.Context, placeType string) ([]*models.FavoritePlace, error) {
	if placeType != "" && !slices.Contains(models.PlaceTypes, placeType) {
		return nil, validationError("unknown place type %q", placeType)
	}
	return s.places.List(ctx, placeType)
}

// Delete removes a favorite place
func (s *PlaceService) Delete(ctx context.Context, id string) error {
	if err := s.places.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Change{Collection: events.Places, Kind: events.Removed, DocumentID: id})
	return nil
}
