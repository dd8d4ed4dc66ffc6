package models

import (
	"fmt"
	"strings"
	"time"
)

// Notification types carried in the push data payload
const (
	NotificationComment    = "comment"
	NotificationVoiceNote  = "voicenote"
	NotificationInvitation = "invitation"
	NotificationReminder   = "reminder"
	NotificationMilestone  = "milestone"
)

// ReminderKeyPrefix prefixes the ledger key of every date reminder.
const ReminderKeyPrefix = "reminder-"

// ReminderKey returns the deterministic ledger key for a date reminder
func ReminderKey(dateID string) string {
	return ReminderKeyPrefix + dateID
}

// Milestone is a one-time achievement. Type is its idempotency key.
type Milestone struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Icon     string    `json:"icon"`
	Achieved time.Time `json:"achieved"`
}

// Validate checks required fields before the milestone reaches the store
func (m *Milestone) Validate() error {
	if m.Type == "" || m.Title == "" {
		return fmt.Errorf("%w: milestone type and title are required", ErrInvalidModel)
	}
	if m.Achieved.IsZero() {
		return fmt.Errorf("%w: milestone achieved time is required", ErrInvalidModel)
	}
	return nil
}

// SentNotification records that a scheduled notification has fired
type SentNotification struct {
	Key    string    `json:"key"`
	DateID string    `json:"date_id"`
	SentAt time.Time `json:"sent_at"`
	Type   string    `json:"type"`
}

// Validate checks required fields before the record reaches the store
func (s *SentNotification) Validate() error {
	if s.Key == "" || s.DateID == "" || s.Type == "" {
		return fmt.Errorf("%w: sent notification key, date_id and type are required", ErrInvalidModel)
	}
	if s.SentAt.IsZero() {
		return fmt.Errorf("%w: sent notification sent_at is required", ErrInvalidModel)
	}
	return nil
}

// DeviceToken is a registered push token. The token string is the key.
type DeviceToken struct {
	Token       string    `json:"token"`
	User        Identity  `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Validate checks required fields before the token reaches the store
func (t *DeviceToken) Validate() error {
	if strings.TrimSpace(t.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidModel)
	}
	if !t.User.Valid() {
		return fmt.Errorf("%w: token user %q", ErrInvalidModel, t.User)
	}
	return nil
}
