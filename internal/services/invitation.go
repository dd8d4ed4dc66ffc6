package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvitationStore persists invitations
type InvitationStore interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	List(ctx context.Context) ([]*models.Invitation, error)
	Accept(ctx context.Context, inv *models.Invitation, derived *models.DateEvent) error
	DeletePending(ctx context.Context, id string) error
	UpdateViewedBy(ctx context.Context, id string, viewedBy []models.Identity) error
}

// InvitationService handles the invitation lifecycle
type InvitationService struct {
	invitations InvitationStore
	bus         Publisher
	loc         *time.Location
	now         func() time.Time
}

// NewInvitationService creates a new invitation service. Invitation dates
// are interpreted in loc.
func NewInvitationService(invitations InvitationStore, bus Publisher, loc *time.Location) *InvitationService {
	if loc == nil {
		loc = time.UTC
	}
	return &InvitationService{
		invitations: invitations,
		bus:         publisherOrNop(bus),
		loc:         loc,
		now:         time.Now,
	}
}

// CreateInvitationRequest represents a request to invite the partner
type CreateInvitationRequest struct {
	Title       string                 `json:"title"`
	Date        string                 `json:"date"` // YYYY-MM-DD
	StartTime   string                 `json:"start_time"`
	EndTime     string                 `json:"end_time"`
	Location    string                 `json:"location"`
	DressCode   string                 `json:"dress_code"`
	Description string                 `json:"description"`
	Itinerary   []models.ItineraryItem `json:"itinerary"`
}

// Create sends a new invitation from actor to the partner
func (s *InvitationService) Create(ctx context.Context, actor models.Identity, req CreateInvitationRequest) (*models.Invitation, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	if strings.TrimSpace(req.StartTime) == "" {
		return nil, validationError("start_time is required")
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return nil, validationError("date must be YYYY-MM-DD")
	}

	itinerary := []models.ItineraryItem{}
	for _, item := range req.Itinerary {
		if strings.TrimSpace(item.Time) == "" && strings.TrimSpace(item.Activity) == "" {
			continue
		}
		itinerary = append(itinerary, item)
	}

	inv := &models.Invitation{
		ID:          uuid.New().String(),
		From:        actor,
		To:          actor.Other(),
		Title:       strings.TrimSpace(req.Title),
		Date:        day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		DressCode:   req.DressCode,
		Description: req.Description,
		Itinerary:   itinerary,
		Status:      models.InvitationPending,
		ViewedBy:    []models.Identity{},
		CreatedAt:   s.now(),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.bus.Publish(events.Change{Collection: events.Invitations, Kind: events.Added, DocumentID: inv.ID, After: inv})
	return inv, nil
}

// List returns all invitations, newest first
func (s *InvitationService) List(ctx context.Context) ([]*models.Invitation, error) {
	return s.invitations.List(ctx)
}

// Accept accepts a pending invitation on behalf of actor and returns the
// invitation together with the date it produced. The two writes are committed
// together or not at all.
func (s *InvitationService) Accept(ctx context.Context, id string, actor models.Identity, note string) (*models.Invitation, *models.DateEvent, error) {
	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	before := *inv

	// the store keeps only the calendar day, which comes back as UTC midnight
	inv.Date = s.localDay(inv.Date)

	derived, err := inv.Accept(actor, note, s.now())
	if err != nil {
		return nil, nil, err
	}
	derived.ID = uuid.New().String()

	if err := s.invitations.Accept(ctx, inv, derived); err != nil {
		return nil, nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	log.Info().
		Str("invitation_id", inv.ID).
		Str("date_id", derived.ID).
		Str("accepted_by", actor.String()).
		Msg("Invitation accepted")

	s.bus.Publish(events.Change{Collection: events.Invitations, Kind: events.Modified, DocumentID: inv.ID, Before: &before, After: inv})
	s.bus.Publish(events.Change{Collection: events.Dates, Kind: events.Added, DocumentID: derived.ID, After: derived})
	return inv, derived, nil
}

func (s *InvitationService) localDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// MarkViewed records that actor opened the invitation
func (s *InvitationService) MarkViewed(ctx context.Context, id string, actor models.Identity) (*models.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsParticipant(actor) {
		return nil, models.ErrNotParticipant
	}
	before := *inv
	before.ViewedBy = append([]models.Identity{}, inv.ViewedBy...)

	if !inv.MarkViewed(actor) {
		return inv, nil
	}
	if err := s.invitations.UpdateViewedBy(ctx, id, inv.ViewedBy); err != nil {
		return nil, fmt.Errorf("failed to mark invitation viewed: %w", err)
	}

	s.bus.Publish(events.Change{Collection: events.Invitations, Kind: events.Modified, DocumentID: id, Before: &before, After: inv})
	return inv, nil
}

// Delete declines (recipient) or cancels (sender) a pending invitation
func (s *InvitationService) Delete(ctx context.Context, id string, actor models.Identity) error {
	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := inv.CanDelete(actor); err != nil {
		return err
	}
	if err := s.invitations.DeletePending(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	action := "cancelled"
	if actor == inv.To {
		action = "declined"
	}
	log.Info().Str("invitation_id", id).Str("by", actor.String()).Msgf("Invitation %s", action)

	s.bus.Publish(events.Change{Collection: events.Invitations, Kind: events.Removed, DocumentID: id, Before: inv})
	return nil
}
