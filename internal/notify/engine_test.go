package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpcomingDates_SendsOnce(t *testing.T) {
	h := newHarness()
	h.dates.Add(testDate("soon", testNow.Add(90*time.Minute)))
	h.dates.Add(testDate("later", testNow.Add(3*time.Hour)))
	h.dates.Add(testDate("past", testNow.Add(-time.Hour)))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := h.engine.CheckUpcomingDates(ctx)
		require.NoError(t, err)
	}

	calls := h.sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "soon", calls[0].Data["dateId"])
	assert.ElementsMatch(t, []string{"simran-phone", "ayaan-phone", "ayaan-tablet"}, calls[0].Tokens)
	assert.Equal(t, 1, h.ledger.Len())

	fired, err := h.ledger.HasFired(ctx, "reminder-soon")
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestCheckUpcomingDates_ConcurrentRuns(t *testing.T) {
	h := newHarness()
	h.dates.Add(testDate("soon", testNow.Add(time.Hour)))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.engine.CheckUpcomingDates(context.Background())
		}()
	}
	wg.Wait()

	assert.Len(t, h.sender.Calls(), 1)
	assert.Equal(t, 1, h.ledger.Len())
}

func TestCheckUpcomingDates_ReleasesClaimOnSendFailure(t *testing.T) {
	h := newHarness()
	h.dates.Add(testDate("soon", testNow.Add(time.Hour)))
	h.sender.err = errors.New("network down")
	ctx := context.Background()

	sent, err := h.engine.CheckUpcomingDates(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, h.ledger.Len())

	h.sender.err = nil
	sent, err = h.engine.CheckUpcomingDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, h.ledger.Len())
	assert.Len(t, h.sender.Calls(), 2)
}

func TestCheckUpcomingDates_PartialFailureStillMarksFired(t *testing.T) {
	h := newHarness()
	h.dates.Add(testDate("soon", testNow.Add(time.Hour)))
	h.sender.failing = map[string]bool{"simran-phone": true, "ayaan-phone": true, "ayaan-tablet": true}

	sent, err := h.engine.CheckUpcomingDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, h.ledger.Len())
}

func TestCheckUpcomingDates_NoTokensIsNoop(t *testing.T) {
	h := newHarness()
	h.tokens.byUser = map[models.Identity][]string{}
	h.dates.Add(testDate("soon", testNow.Add(time.Hour)))

	sent, err := h.engine.CheckUpcomingDates(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, h.sender.Calls())
	assert.Zero(t, h.ledger.Len())
}

func TestCleanupSentNotifications_Retention(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	for key, age := range map[string]int{"reminder-old": 8, "reminder-new": 6} {
		_, err := h.ledger.Claim(ctx, &models.SentNotification{
			Key: key, DateID: key, Type: models.NotificationReminder,
			SentAt: testNow.AddDate(0, 0, -age),
		})
		require.NoError(t, err)
	}

	deleted, err := h.engine.CleanupSentNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	old, _ := h.ledger.HasFired(ctx, "reminder-old")
	recent, _ := h.ledger.HasFired(ctx, "reminder-new")
	assert.False(t, old)
	assert.True(t, recent)
}

func TestCleanupSentNotifications_DeleteFailureIsLogged(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	for _, key := range []string{"reminder-a", "reminder-b"} {
		_, err := h.ledger.Claim(ctx, &models.SentNotification{
			Key: key, DateID: key, Type: models.NotificationReminder,
			SentAt: testNow.AddDate(0, 0, -10),
		})
		require.NoError(t, err)
	}
	h.ledger.deleteErr["reminder-a"] = errors.New("timeout")

	deleted, err := h.engine.CleanupSentNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, h.ledger.Len())
}

func TestCheckMilestones_ThresholdExactness(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	for i := 0; i < 9; i++ {
		h.dates.Add(testDate(fmt.Sprintf("d%d", i), testNow.AddDate(0, 0, -i)))
	}

	n, err := h.engine.CheckMilestones(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, h.milestones.Types())

	h.dates.Add(testDate("d9", testNow))
	n, err = h.engine.CheckMilestones(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"10dates"}, h.milestones.Types())

	calls := h.sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Milestone Achieved! 🔟", calls[0].Title)
	assert.Equal(t, "10th Date!", calls[0].Body)
	assert.Equal(t, "10dates", calls[0].Data["milestoneType"])

	h.dates.Add(testDate("d10", testNow))
	n, err = h.engine.CheckMilestones(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"10dates"}, h.milestones.Types())
}

func TestCheckMilestones_Idempotent(t *testing.T) {
	h := newHarness()
	d := testDate("five", testNow)
	d.Rating = 5
	h.dates.Add(d)

	for i := 0; i < 3; i++ {
		_, err := h.engine.CheckMilestones(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"first5star"}, h.milestones.Types())
	assert.Len(t, h.sender.Calls(), 1)
}

func TestCheckMilestones_ReleasedOnSendFailure(t *testing.T) {
	h := newHarness()
	d := testDate("five", testNow)
	d.Rating = 5
	h.dates.Add(d)
	h.sender.err = errors.New("auth failed")

	n, err := h.engine.CheckMilestones(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, h.milestones.Types())

	h.sender.err = nil
	n, err = h.engine.CheckMilestones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckMilestones_RecordedWithoutTokens(t *testing.T) {
	h := newHarness()
	h.tokens.byUser = map[models.Identity][]string{}
	d := testDate("five", testNow)
	d.Rating = 5
	h.dates.Add(d)

	n, err := h.engine.CheckMilestones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, h.sender.Calls())
}

func TestHandleChange_CommentNotifiesPartnerOnly(t *testing.T) {
	h := newHarness()
	before := testDate("d1", testNow)
	after := before.Clone()
	after.Comments = append(after.Comments, models.Comment{Text: "hi", Author: models.Ayaan, Timestamp: testNow})

	h.engine.HandleChange(context.Background(), events.Change{
		Collection: events.Dates,
		Kind:       events.Modified,
		DocumentID: "d1",
		Before:     before,
		After:      after,
	})

	calls := h.sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"simran-phone"}, calls[0].Tokens)
	assert.Equal(t, "Ayaan commented on \"Date d1\"", calls[0].Body)
}

func TestHandleChange_InvitationNotifiesRecipient(t *testing.T) {
	h := newHarness()
	inv := &models.Invitation{ID: "i1", From: models.Simran, To: models.Ayaan, Title: "Opera", CreatedAt: testNow}

	h.engine.HandleChange(context.Background(), events.Change{
		Collection: events.Invitations,
		Kind:       events.Added,
		DocumentID: "i1",
		After:      inv,
	})

	calls := h.sender.Calls()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []string{"ayaan-phone", "ayaan-tablet"}, calls[0].Tokens)
}

func TestHandleChange_NoRecipientTokens(t *testing.T) {
	h := newHarness()
	h.tokens.byUser[models.Simran] = nil
	before := testDate("d1", testNow)
	after := before.Clone()
	after.Comments = append(after.Comments, models.Comment{Text: "hi", Author: models.Ayaan, Timestamp: testNow})

	h.engine.OnDateUpdated(context.Background(), "d1", before, after)
	assert.Empty(t, h.sender.Calls())
}

func TestDispatcher_EmptyTokensSkipsSend(t *testing.T) {
	sender := &fakeSender{}
	res, err := NewDispatcher(sender, nil).Dispatch(context.Background(), Notification{Type: "comment"}, nil)
	require.NoError(t, err)
	assert.Zero(t, res.SuccessCount+res.FailureCount)
	assert.Empty(t, sender.Calls())
}

func TestDispatcher_PartialFailure(t *testing.T) {
	sender := &fakeSender{failing: map[string]bool{"t2": true}}
	res, err := NewDispatcher(sender, nil).Dispatch(context.Background(), Notification{Type: "reminder"}, []string{"t1", "t2", "t3"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, "t2", res.Responses[1].Token)
	assert.Error(t, res.Responses[1].Error)
}

func TestDispatcher_PrunesUnregisteredTokens(t *testing.T) {
	tokens := newFakeTokens()
	sender := &fakeSender{unregistered: map[string]bool{"ayaan-tablet": true}}

	_, err := NewDispatcher(sender, tokens).Dispatch(context.Background(), Notification{Type: "comment"},
		[]string{"ayaan-phone", "ayaan-tablet"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ayaan-tablet"}, tokens.deleted)
	remaining, _ := tokens.ListByUser(context.Background(), models.Ayaan)
	assert.Equal(t, []string{"ayaan-phone"}, remaining)
}
