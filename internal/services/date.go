package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/media"
	"date-journal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DateStore persists dates
type DateStore interface {
	Create(ctx context.Context, d *models.DateEvent) error
	GetByID(ctx context.Context, id string) (*models.DateEvent, error)
	List(ctx context.Context) ([]*models.DateEvent, error)
	Update(ctx context.Context, id string, fn func(d *models.DateEvent) error) (before, after *models.DateEvent, err error)
}

// DateService handles date-related business logic
type DateService struct {
	dates DateStore
	media media.Store
	bus   Publisher
	now   func() time.Time
}

// NewDateService creates a new date service
func NewDateService(dates DateStore, store media.Store, bus Publisher) *DateService {
	return &DateService{
		dates: dates,
		media: store,
		bus:   publisherOrNop(bus),
		now:   time.Now,
	}
}

// CreateDateRequest represents a request to record a date
type CreateDateRequest struct {
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
}

// UpdateDateRequest carries the fields to change; nil fields are kept
type UpdateDateRequest struct {
	Title       *string    `json:"title"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category"`
	Rating      *int       `json:"rating"`
	Description *string    `json:"description"`
}

// Upload is one file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Create records a new date
func (s *DateService) Create(ctx context.Context, actor models.Identity, req CreateDateRequest) (*models.DateEvent, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	if req.Date.IsZero() {
		return nil, validationError("date is required")
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, validationError("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	d := &models.DateEvent{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		Rating:      req.Rating,
		Description: req.Description,
		Comments:    []models.Comment{},
		VoiceNotes:  []models.VoiceNote{},
		Photos:      []models.Photo{},
		CreatedBy:   actor,
		CreatedAt:   s.now(),
	}
	if err := s.dates.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create date: %w", err)
	}

	s.bus.Publish(events.Change{Collection: events.Dates, Kind: events.Added, DocumentID: d.ID, After: d})
	return d, nil
}

// Get returns one date
func (s *DateService) Get(ctx context.Context, id string) (*models.DateEvent, error) {
	return s.dates.GetByID(ctx, id)
}

// List returns all dates, newest first
func (s *DateService) List(ctx context.Context) ([]*models.DateEvent, error) {
	return s.dates.List(ctx)
}

// Update edits the scalar fields of a date. Concurrent edits of the same
// field are last-write-wins.
func (s *DateService) Update(ctx context.Context, id string, req UpdateDateRequest) (*models.DateEvent, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, validationError("title cannot be empty")
	}
	if req.Rating != nil && (*req.Rating < models.MinRating || *req.Rating > models.MaxRating) {
		return nil, validationError("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	return s.mutate(ctx, id, func(d *models.DateEvent) error {
		if req.Title != nil {
			d.Title = strings.TrimSpace(*req.Title)
		}
		if req.Date != nil {
			d.Date = *req.Date
		}
		if req.Location != nil {
			d.Location = *req.Location
		}
		if req.Category != nil {
			d.Category = *req.Category
		}
		if req.Rating != nil {
			d.Rating = *req.Rating
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		return nil
	})
}

// ToggleFavorite flips the favorited flag
func (s *DateService) ToggleFavorite(ctx context.Context, id string) (*models.DateEvent, error) {
	return s.mutate(ctx, id, func(d *models.DateEvent) error {
		d.Favorited = !d.Favorited
		return nil
	})
}

// AddComment appends a comment by actor
func (s *DateService) AddComment(ctx context.Context, id string, actor models.Identity, text string) (*models.DateEvent, error) {
	c := models.Comment{Text: strings.TrimSpace(text), Author: actor, Timestamp: s.now()}
	if c.Text == "" {
		return nil, validationError("comment text is required")
	}
	return s.mutate(ctx, id, func(d *models.DateEvent) error {
		d.Comments = append(d.Comments, c)
		return nil
	})
}

// AddVoiceNote uploads a recording and appends it to the date
func (s *DateService) AddVoiceNote(ctx context.Context, id string, actor models.Identity, up Upload) (*models.DateEvent, error) {
	if err := media.CheckContentType(media.KindVoiceNote, up.ContentType); err != nil {
		return nil, validationError("%v", err)
	}
	if _, err := s.dates.GetByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, media.ObjectKey(media.KindVoiceNote, id, up.Filename), up.ContentType, up.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload voice note: %w", err)
	}

	note := models.VoiceNote{URL: url, UploadedBy: actor, Timestamp: s.now()}
	return s.mutate(ctx, id, func(d *models.DateEvent) error {
		d.VoiceNotes = append(d.VoiceNotes, note)
		return nil
	})
}

// AddPhotos uploads images and appends them to the date in one update
func (s *DateService) AddPhotos(ctx context.Context, id string, actor models.Identity, uploads []Upload) (*models.DateEvent, error) {
	if len(uploads) == 0 {
		return nil, validationError("at least one photo is required")
	}
	for _, up := range uploads {
		if err := media.CheckContentType(media.KindPhoto, up.ContentType); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if _, err := s.dates.GetByID(ctx, id); err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(uploads))
	for _, up := range uploads {
		url, err := s.media.Upload(ctx, media.ObjectKey(media.KindPhoto, id, up.Filename), up.ContentType, up.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo %s: %w", up.Filename, err)
		}
		photos = append(photos, models.Photo{URL: url, UploadedBy: actor, Timestamp: s.now()})
	}

	log.Info().Str("date_id", id).Int("count", len(photos)).Msg("Photos uploaded")

	return s.mutate(ctx, id, func(d *models.DateEvent) error {
		d.Photos = append(d.Photos, photos...)
		return nil
	})
}

func (s *DateService) mutate(ctx context.Context, id string, fn func(d *models.DateEvent) error) (*models.DateEvent, error) {
	before, after, err := s.dates.Update(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Change{
		Collection: events.Dates,
		Kind:       events.Modified,
		DocumentID: id,
		Before:     before,
		After:      after,
	})
	return after, nil
}
