package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Other(t *testing.T) {
	assert.Equal(t, Ayaan, Simran.Other())
	assert.Equal(t, Simran, Ayaan.Other())

	for _, id := range Identities {
		assert.NotEqual(t, id, id.Other(), "partner of %s must differ", id)
		assert.Equal(t, id, id.Other().Other())
	}
}

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("ayaan")
	require.NoError(t, err)
	assert.Equal(t, Ayaan, id)

	_, err = ParseIdentity("someone")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = ParseIdentity("")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func testInvitation() *Invitation {
	return &Invitation{
		ID:          "inv-1",
		From:        Simran,
		To:          Ayaan,
		Title:       "Sunset picnic",
		Date:        time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:30",
		EndTime:     "21:00",
		Location:    "Riverside park",
		DressCode:   "Cozy",
		Description: "Bring a blanket",
		Itinerary:   []ItineraryItem{{Time: "18:30", Activity: "Picnic"}},
		Status:      InvitationPending,
		CreatedAt:   time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestInvitation_Accept(t *testing.T) {
	now := time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC)
	inv := testInvitation()

	derived, err := inv.Accept(Ayaan, "  Can't wait!  ", now)
	require.NoError(t, err)

	assert.Equal(t, InvitationAccepted, inv.Status)
	require.NotNil(t, inv.AcceptanceNote)
	assert.Equal(t, "Can't wait!", *inv.AcceptanceNote)
	require.NotNil(t, inv.AcceptedAt)
	assert.Equal(t, now, *inv.AcceptedAt)

	require.NotNil(t, derived)
	assert.Equal(t, "Sunset picnic", derived.Title)
	assert.Equal(t, "Riverside park", derived.Location)
	assert.Equal(t, "Bring a blanket", derived.Description)
	assert.Equal(t, CategoryUpcoming, derived.Category)
	assert.Equal(t, time.Date(2026, 11, 2, 18, 30, 0, 0, time.UTC), derived.Date)
	assert.Equal(t, Simran, derived.CreatedBy)
	assert.True(t, derived.FromInvitation)
	require.NotNil(t, derived.InvitationID)
	assert.Equal(t, "inv-1", *derived.InvitationID)

	require.Len(t, derived.Comments, 1)
	first := derived.Comments[0]
	assert.Equal(t, "Can't wait!", first.Text)
	assert.Equal(t, Ayaan, first.Author)
	assert.True(t, first.IsAcceptanceNote)
	assert.NoError(t, derived.Validate())
}

func TestInvitation_Accept_RejectsBlankNote(t *testing.T) {
	for _, note := range []string{"", "   ", "\n\t"} {
		inv := testInvitation()
		derived, err := inv.Accept(Ayaan, note, time.Now())
		assert.ErrorIs(t, err, ErrEmptyNote)
		assert.Nil(t, derived)
		assert.Equal(t, InvitationPending, inv.Status)
		assert.Nil(t, inv.AcceptanceNote)
		assert.Nil(t, inv.AcceptedAt)
	}
}

func TestInvitation_Accept_OnlyRecipient(t *testing.T) {
	inv := testInvitation()
	_, err := inv.Accept(Simran, "yay", time.Now())
	assert.ErrorIs(t, err, ErrNotRecipient)
	assert.Equal(t, InvitationPending, inv.Status)
}

func TestInvitation_Accept_Terminal(t *testing.T) {
	inv := testInvitation()
	_, err := inv.Accept(Ayaan, "yes", time.Now())
	require.NoError(t, err)

	_, err = inv.Accept(Ayaan, "again", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, inv.CanDelete(Ayaan), ErrInvalidTransition)
}

func TestInvitation_EventTime_FallsBackToDate(t *testing.T) {
	inv := testInvitation()
	inv.StartTime = "evening"
	assert.Equal(t, inv.Date, inv.EventTime())
}

func TestInvitation_MarkViewed(t *testing.T) {
	inv := testInvitation()
	assert.True(t, inv.MarkViewed(Ayaan))
	assert.False(t, inv.MarkViewed(Ayaan))
	assert.True(t, inv.MarkViewed(Simran))
	assert.Equal(t, []Identity{Ayaan, Simran}, inv.ViewedBy)
}

func TestDateEvent_Validate(t *testing.T) {
	d := &DateEvent{
		Title:     "Dinner",
		Date:      time.Now(),
		Rating:    6,
		CreatedBy: Simran,
	}
	assert.ErrorIs(t, d.Validate(), ErrInvalidModel)

	d.Rating = 5
	assert.NoError(t, d.Validate())

	d.Comments = []Comment{{Text: "hi", Author: "stranger"}}
	assert.ErrorIs(t, d.Validate(), ErrInvalidModel)
}

func TestWishlistItem_Toggle(t *testing.T) {
	now := time.Now()
	item := &WishlistItem{Title: "Hot air balloon", CreatedBy: Ayaan}

	item.Toggle(Simran, now)
	assert.True(t, item.Completed)
	require.NotNil(t, item.CompletedBy)
	assert.Equal(t, Simran, *item.CompletedBy)
	assert.NoError(t, item.Validate())

	item.Toggle(Ayaan, now)
	assert.False(t, item.Completed)
	assert.Nil(t, item.CompletedBy)
	assert.Nil(t, item.CompletedAt)
}

func TestDateEvent_Clone(t *testing.T) {
	d := &DateEvent{
		Title:     "Dinner",
		Date:      time.Now(),
		CreatedBy: Simran,
		Comments:  []Comment{{Text: "first", Author: Ayaan}},
	}
	c := d.Clone()
	c.Comments = append(c.Comments, Comment{Text: "second", Author: Simran})
	c.Comments[0].Text = "edited"

	assert.Len(t, d.Comments, 1)
	assert.Equal(t, "first", d.Comments[0].Text)
}
