// Package notify decides when a change or a scheduled scan produces a push
// notification or a milestone, and delivers it exactly once where a ledger
// key applies.
package notify

import (
	"fmt"
	"time"

	"date-journal-backend/internal/models"
)

// Target is the logical recipient of a notification: one identity, or every
// registered device when Broadcast is set
type Target struct {
	Identity  models.Identity
	Broadcast bool
}

// ToIdentity addresses the devices of one identity
func ToIdentity(id models.Identity) Target {
	return Target{Identity: id}
}

// Everyone addresses every registered device
func Everyone() Target {
	return Target{Broadcast: true}
}

func (t Target) String() string {
	if t.Broadcast {
		return "all"
	}
	return string(t.Identity)
}

// Notification is a candidate produced by the rules, not yet resolved to tokens
type Notification struct {
	Type   string
	Title  string
	Body   string
	Data   map[string]string
	Target Target
}

// EvaluateDateUpdate compares two snapshots of one date and returns a comment
// and/or voice note notification when those sequences grew. The recipient is
// always the partner of whoever appended the newest entry.
func EvaluateDateUpdate(dateID string, before, after *models.DateEvent) []Notification {
	if before == nil || after == nil {
		return nil
	}

	var out []Notification
	if len(after.Comments) > len(before.Comments) {
		c, _ := after.LastComment()
		out = append(out, Notification{
			Type:   models.NotificationComment,
			Title:  "New Comment 💬",
			Body:   fmt.Sprintf("%s commented on \"%s\"", c.Author.DisplayName(), after.Title),
			Target: ToIdentity(c.Author.Other()),
			Data: map[string]string{
				"type":      models.NotificationComment,
				"dateId":    dateID,
				"timestamp": formatTime(c.Timestamp),
			},
		})
	}
	if len(after.VoiceNotes) > len(before.VoiceNotes) {
		v, _ := after.LastVoiceNote()
		out = append(out, Notification{
			Type:   models.NotificationVoiceNote,
			Title:  "New Voice Note 🎤",
			Body:   fmt.Sprintf("%s sent a voice note for \"%s\"", v.UploadedBy.DisplayName(), after.Title),
			Target: ToIdentity(v.UploadedBy.Other()),
			Data: map[string]string{
				"type":      models.NotificationVoiceNote,
				"dateId":    dateID,
				"timestamp": formatTime(v.Timestamp),
			},
		})
	}
	return out
}

// EvaluateInvitationCreated returns the notification for a new invitation
func EvaluateInvitationCreated(inv *models.Invitation) Notification {
	return Notification{
		Type:   models.NotificationInvitation,
		Title:  "Date Invitation! 💕",
		Body:   fmt.Sprintf("%s invited you to \"%s\"", inv.From.DisplayName(), inv.Title),
		Target: ToIdentity(inv.To),
		Data: map[string]string{
			"type":         models.NotificationInvitation,
			"invitationId": inv.ID,
			"timestamp":    formatTime(inv.CreatedAt),
		},
	}
}

// DueForReminder reports whether a date falls in the window (now, now+lead]
func DueForReminder(d *models.DateEvent, now time.Time, lead time.Duration) bool {
	return d.Date.After(now) && !d.Date.After(now.Add(lead))
}

// ReminderNotification returns the broadcast reminder for an upcoming date
func ReminderNotification(d *models.DateEvent, lead time.Duration, now time.Time) Notification {
	return Notification{
		Type:   models.NotificationReminder,
		Title:  "Upcoming Date! 💖",
		Body:   fmt.Sprintf("Your date \"%s\" is in %s!", d.Title, humanizeLead(lead)),
		Target: Everyone(),
		Data: map[string]string{
			"type":      models.NotificationReminder,
			"dateId":    d.ID,
			"timestamp": formatTime(now),
		},
	}
}

// MilestoneNotification returns the broadcast announcing an achieved milestone
func MilestoneNotification(m *models.Milestone) Notification {
	return Notification{
		Type:   models.NotificationMilestone,
		Title:  "Milestone Achieved! " + m.Icon,
		Body:   m.Title,
		Target: Everyone(),
		Data: map[string]string{
			"type":          models.NotificationMilestone,
			"milestoneType": m.Type,
			"timestamp":     formatTime(m.Achieved),
		},
	}
}

// IsExpired reports whether a ledger record is older than retention
func IsExpired(rec *models.SentNotification, now time.Time, retention time.Duration) bool {
	return rec.SentAt.Before(now.Add(-retention))
}

func humanizeLead(lead time.Duration) string {
	if lead >= time.Hour && lead%time.Hour == 0 {
		if h := int(lead / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%d minutes", int(lead/time.Minute))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
