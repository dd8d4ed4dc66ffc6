package notify

import (
	"fmt"
	"testing"
	"time"

	"date-journal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDateUpdate_CommentGoesToPartner(t *testing.T) {
	for _, author := range models.Identities {
		before := testDate("d1", testNow)
		after := before.Clone()
		after.Comments = append(after.Comments, models.Comment{Text: "Loved it", Author: author, Timestamp: testNow})

		out := EvaluateDateUpdate("d1", before, after)
		require.Len(t, out, 1)
		n := out[0]
		assert.Equal(t, models.NotificationComment, n.Type)
		assert.Equal(t, author.Other(), n.Target.Identity)
		assert.NotEqual(t, author, n.Target.Identity)
		assert.False(t, n.Target.Broadcast)
		assert.Equal(t, "New Comment 💬", n.Title)
		assert.Equal(t, fmt.Sprintf("%s commented on \"Date d1\"", author.DisplayName()), n.Body)
		assert.Equal(t, "d1", n.Data["dateId"])
		assert.Equal(t, "comment", n.Data["type"])
	}
}

func TestEvaluateDateUpdate_VoiceNote(t *testing.T) {
	before := testDate("d1", testNow)
	after := before.Clone()
	after.VoiceNotes = append(after.VoiceNotes, models.VoiceNote{URL: "https://x/v.webm", UploadedBy: models.Ayaan, Timestamp: testNow})

	out := EvaluateDateUpdate("d1", before, after)
	require.Len(t, out, 1)
	assert.Equal(t, models.NotificationVoiceNote, out[0].Type)
	assert.Equal(t, models.Simran, out[0].Target.Identity)
	assert.Equal(t, "Ayaan sent a voice note for \"Date d1\"", out[0].Body)
}

func TestEvaluateDateUpdate_NoGrowth(t *testing.T) {
	before := testDate("d1", testNow)
	before.Comments = []models.Comment{{Text: "a", Author: models.Simran}}
	after := before.Clone()
	after.Title = "Renamed"
	after.Rating = 5

	assert.Empty(t, EvaluateDateUpdate("d1", before, after))
	assert.Empty(t, EvaluateDateUpdate("d1", nil, after))
}

func TestEvaluateInvitationCreated(t *testing.T) {
	inv := &models.Invitation{ID: "i1", From: models.Ayaan, To: models.Simran, Title: "Museum", CreatedAt: testNow}
	n := EvaluateInvitationCreated(inv)
	assert.Equal(t, models.Simran, n.Target.Identity)
	assert.Equal(t, "Date Invitation! 💕", n.Title)
	assert.Equal(t, "Ayaan invited you to \"Museum\"", n.Body)
	assert.Equal(t, "i1", n.Data["invitationId"])
}

func TestDueForReminder(t *testing.T) {
	lead := 2 * time.Hour
	cases := []struct {
		offset time.Duration
		due    bool
	}{
		{-time.Minute, false},
		{0, false},
		{time.Minute, true},
		{2 * time.Hour, true},
		{2*time.Hour + time.Second, false},
	}
	for _, tc := range cases {
		d := testDate("d", testNow.Add(tc.offset))
		assert.Equal(t, tc.due, DueForReminder(d, testNow, lead), "offset %s", tc.offset)
	}
}

func TestReminderNotification(t *testing.T) {
	n := ReminderNotification(testDate("d1", testNow.Add(time.Hour)), 2*time.Hour, testNow)
	assert.True(t, n.Target.Broadcast)
	assert.Equal(t, "Upcoming Date! 💖", n.Title)
	assert.Equal(t, "Your date \"Date d1\" is in 2 hours!", n.Body)
	assert.Equal(t, "reminder", n.Data["type"])
}

func TestIsExpired(t *testing.T) {
	retention := 7 * 24 * time.Hour
	old := &models.SentNotification{SentAt: testNow.AddDate(0, 0, -8)}
	recent := &models.SentNotification{SentAt: testNow.AddDate(0, 0, -6)}
	assert.True(t, IsExpired(old, testNow, retention))
	assert.False(t, IsExpired(recent, testNow, retention))
}

func TestEvaluateMilestones_ExactMatchOnly(t *testing.T) {
	types := func(m Metrics) []string {
		var out []string
		for _, def := range EvaluateMilestones(m) {
			out = append(out, def.Type)
		}
		return out
	}

	assert.Empty(t, types(Metrics{TotalDates: 9}))
	assert.Equal(t, []string{"10dates"}, types(Metrics{TotalDates: 10}))
	assert.Empty(t, types(Metrics{TotalDates: 11}))
	assert.Equal(t, []string{"100days", "first5star"}, types(Metrics{DaysTogether: 100, FiveStarDates: 1}))
	assert.Empty(t, types(Metrics{FiveStarDates: 2}))
}

func TestComputeMetrics(t *testing.T) {
	a := testDate("a", testNow)
	a.Rating = 5
	a.Favorited = true
	a.Photos = []models.Photo{{URL: "p1"}, {URL: "p2"}}
	a.Comments = []models.Comment{{Text: "x", Author: models.Simran}}
	b := testDate("b", testNow)
	b.Rating = 4
	b.VoiceNotes = []models.VoiceNote{{URL: "v", UploadedBy: models.Ayaan}}
	c := testDate("c", testNow)
	c.Rating = 0

	anniversary := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	m := ComputeMetrics([]*models.DateEvent{a, b, c}, anniversary, testNow)

	assert.Equal(t, 3, m.TotalDates)
	assert.Equal(t, 1, m.FavoriteDates)
	assert.Equal(t, 2, m.TotalPhotos)
	assert.Equal(t, 1, m.TotalComments)
	assert.Equal(t, 1, m.TotalVoiceNotes)
	assert.Equal(t, 1, m.FiveStarDates)
	assert.Equal(t, 3.0, m.AvgRating)
	assert.Equal(t, 366, m.DaysTogether)

	assert.Equal(t, Metrics{}, ComputeMetrics(nil, testNow, testNow))
}
