package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// InvitationStatus is the lifecycle state of an invitation. A declined or
// cancelled invitation is deleted, so it has no status of its own.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// CategoryUpcoming is the category given to dates created from invitations.
const CategoryUpcoming = "upcoming"

var (
	ErrInvalidTransition = errors.New("invitation is no longer pending")
	ErrNotRecipient      = errors.New("only the invited partner can accept")
	ErrNotParticipant    = errors.New("not a participant of this invitation")
	ErrEmptyNote         = errors.New("acceptance note is required")
)

// Invitation is a proposal from one identity to the other for a future date
type Invitation struct {
	ID             string           `json:"id"`
	From           Identity         `json:"from"`
	To             Identity         `json:"to"`
	Title          string           `json:"title"`
	Date           time.Time        `json:"date"`
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	Location       string           `json:"location"`
	DressCode      string           `json:"dress_code"`
	Description    string           `json:"description"`
	Itinerary      []ItineraryItem  `json:"itinerary"`
	Status         InvitationStatus `json:"status"`
	AcceptanceNote *string          `json:"acceptance_note"`
	AcceptedAt     *time.Time       `json:"accepted_at"`
	ViewedBy       []Identity       `json:"viewed_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ItineraryItem is one planned step of an invitation
type ItineraryItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// Validate checks required fields before the invitation reaches the store
func (inv *Invitation) Validate() error {
	if strings.TrimSpace(inv.Title) == "" {
		return fmt.Errorf("%w: invitation title is required", ErrInvalidModel)
	}
	if inv.Date.IsZero() {
		return fmt.Errorf("%w: invitation date is required", ErrInvalidModel)
	}
	if strings.TrimSpace(inv.StartTime) == "" {
		return fmt.Errorf("%w: invitation start time is required", ErrInvalidModel)
	}
	if !inv.From.Valid() || !inv.To.Valid() {
		return fmt.Errorf("%w: invitation participants %q -> %q", ErrInvalidModel, inv.From, inv.To)
	}
	if inv.From == inv.To {
		return fmt.Errorf("%w: invitation sender and receiver must differ", ErrInvalidModel)
	}
	switch inv.Status {
	case InvitationPending, InvitationAccepted:
	default:
		return fmt.Errorf("%w: invitation status %q", ErrInvalidModel, inv.Status)
	}
	return nil
}

// IsParticipant reports whether id is the sender or the receiver.
func (inv *Invitation) IsParticipant(id Identity) bool {
	return id == inv.From || id == inv.To
}

// EventTime combines the invitation date with its start time when the start
// time is a valid HH:MM value.
func (inv *Invitation) EventTime() time.Time {
	start, err := time.Parse("15:04", strings.TrimSpace(inv.StartTime))
	if err != nil {
		return inv.Date
	}
	y, m, d := inv.Date.Date()
	return time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, inv.Date.Location())
}

// Accept transitions a pending invitation to accepted and returns the date
// that the acceptance materializes. Validation happens before any field is
// touched, so a rejected call leaves the invitation unchanged.
func (inv *Invitation) Accept(actor Identity, note string, now time.Time) (*DateEvent, error) {
	if inv.Status != InvitationPending {
		return nil, ErrInvalidTransition
	}
	if actor != inv.To {
		return nil, ErrNotRecipient
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}

	inv.Status = InvitationAccepted
	inv.AcceptanceNote = &note
	inv.AcceptedAt = &now

	invitationID := inv.ID
	itinerary := inv.Itinerary
	if itinerary == nil {
		itinerary = []ItineraryItem{}
	}

	return &DateEvent{
		Title:       inv.Title,
		Date:        inv.EventTime(),
		Location:    inv.Location,
		Category:    CategoryUpcoming,
		Rating:      0,
		Description: inv.Description,
		Comments: []Comment{{
			Text:             note,
			Author:           inv.To,
			Timestamp:        now,
			IsAcceptanceNote: true,
		}},
		VoiceNotes:     []VoiceNote{},
		Photos:         []Photo{},
		CreatedBy:      inv.From,
		CreatedAt:      now,
		FromInvitation: true,
		InvitationID:   &invitationID,
		InvitationData: &InvitationData{
			StartTime: inv.StartTime,
			EndTime:   inv.EndTime,
			DressCode: inv.DressCode,
			Itinerary: itinerary,
		},
	}, nil
}

// CanDelete checks whether actor may decline or cancel the invitation.
func (inv *Invitation) CanDelete(actor Identity) error {
	if !inv.IsParticipant(actor) {
		return ErrNotParticipant
	}
	if inv.Status != InvitationPending {
		return ErrInvalidTransition
	}
	return nil
}

// MarkViewed records that actor has seen the invitation. It returns false
// when actor had already viewed it.
func (inv *Invitation) MarkViewed(actor Identity) bool {
	if slices.Contains(inv.ViewedBy, actor) {
		return false
	}
	inv.ViewedBy = append(inv.ViewedBy, actor)
	return true
}
