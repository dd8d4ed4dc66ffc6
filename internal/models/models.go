package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidModel is wrapped by every Validate failure
var ErrInvalidModel = errors.New("invalid model")

const (
	MinRating = 0
	MaxRating = 5
)

// DateEvent represents a recorded or planned date
type DateEvent struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Date           time.Time       `json:"date"`
	Location       string          `json:"location"`
	Category       string          `json:"category"`
	Rating         int             `json:"rating"`
	Description    string          `json:"description"`
	Comments       []Comment       `json:"comments"`
	VoiceNotes     []VoiceNote     `json:"voice_notes"`
	Photos         []Photo         `json:"photos"`
	Favorited      bool            `json:"favorited"`
	CreatedBy      Identity        `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	FromInvitation bool            `json:"from_invitation"`
	InvitationID   *string         `json:"invitation_id,omitempty"`
	InvitationData *InvitationData `json:"invitation_data,omitempty"`
}

// Comment is an immutable note appended to a date
type Comment struct {
	Text             string    `json:"text"`
	Author           Identity  `json:"author"`
	Timestamp        time.Time `json:"timestamp"`
	IsAcceptanceNote bool      `json:"is_acceptance_note,omitempty"`
}

// VoiceNote is an uploaded audio clip attached to a date
type VoiceNote struct {
	URL        string    `json:"url"`
	UploadedBy Identity  `json:"uploaded_by"`
	Timestamp  time.Time `json:"timestamp"`
}

// Photo is an uploaded image attached to a date
type Photo struct {
	URL        string    `json:"url"`
	UploadedBy Identity  `json:"uploaded_by"`
	Timestamp  time.Time `json:"timestamp"`
}

// InvitationData keeps the invitation details on a date created from an invitation
type InvitationData struct {
	StartTime string          `json:"start_time,omitempty"`
	EndTime   string          `json:"end_time,omitempty"`
	DressCode string          `json:"dress_code,omitempty"`
	Itinerary []ItineraryItem `json:"itinerary"`
}

// LastComment returns the most recently appended comment, if any.
func (d *DateEvent) LastComment() (Comment, bool) {
	if len(d.Comments) == 0 {
		return Comment{}, false
	}
	return d.Comments[len(d.Comments)-1], true
}

// LastVoiceNote returns the most recently appended voice note, if any.
func (d *DateEvent) LastVoiceNote() (VoiceNote, bool) {
	if len(d.VoiceNotes) == 0 {
		return VoiceNote{}, false
	}
	return d.VoiceNotes[len(d.VoiceNotes)-1], true
}

// Validate checks required fields before the date reaches the store
func (d *DateEvent) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: date title is required", ErrInvalidModel)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date time is required", ErrInvalidModel)
	}
	if d.Rating < MinRating || d.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidModel, MinRating, MaxRating)
	}
	if !d.CreatedBy.Valid() {
		return fmt.Errorf("%w: created_by %q", ErrInvalidModel, d.CreatedBy)
	}
	for i, c := range d.Comments {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("comment %d: %w", i, err)
		}
	}
	for i, v := range d.VoiceNotes {
		if v.URL == "" || !v.UploadedBy.Valid() {
			return fmt.Errorf("%w: voice note %d is incomplete", ErrInvalidModel, i)
		}
	}
	for i, p := range d.Photos {
		if p.URL == "" {
			return fmt.Errorf("%w: photo %d has no url", ErrInvalidModel, i)
		}
	}
	return nil
}

// Validate checks a comment before it is appended
func (c Comment) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: comment text is required", ErrInvalidModel)
	}
	if !c.Author.Valid() {
		return fmt.Errorf("%w: comment author %q", ErrInvalidModel, c.Author)
	}
	return nil
}

// Clone returns a deep copy so a mutation can be compared with its source.
func (d *DateEvent) Clone() *DateEvent {
	c := *d
	c.Comments = append([]Comment{}, d.Comments...)
	c.VoiceNotes = append([]VoiceNote{}, d.VoiceNotes...)
	c.Photos = append([]Photo{}, d.Photos...)
	if d.InvitationID != nil {
		id := *d.InvitationID
		c.InvitationID = &id
	}
	if d.InvitationData != nil {
		data := *d.InvitationData
		data.Itinerary = append([]ItineraryItem{}, d.InvitationData.Itinerary...)
		c.InvitationData = &data
	}
	return &c
}
