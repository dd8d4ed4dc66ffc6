package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"date-journal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to TEST_DATABASE_URL. The tests need a disposable
// PostgreSQL database and are skipped without one.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migrate must be repeatable")
	return pool
}

func TestSentNotificationRepository_ClaimOnce(t *testing.T) {
	pool := testPool(t)
	repo := NewSentNotificationRepository(pool)
	ctx := context.Background()

	rec := &models.SentNotification{
		Key:    models.ReminderKey(uuid.NewString()),
		DateID: "d1",
		SentAt: time.Now().UTC(),
		Type:   models.NotificationReminder,
	}
	won, err := repo.Claim(ctx, rec)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.Claim(ctx, rec)
	require.NoError(t, err)
	assert.False(t, won)

	fired, err := repo.HasFired(ctx, rec.Key)
	require.NoError(t, err)
	assert.True(t, fired)

	require.NoError(t, repo.Release(ctx, rec.Key))
	fired, err = repo.HasFired(ctx, rec.Key)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestInvitationRepository_AcceptOnce(t *testing.T) {
	pool := testPool(t)
	invitations := NewInvitationRepository(pool)
	dates := NewDateRepository(pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	inv := &models.Invitation{
		ID:        uuid.NewString(),
		From:      models.Simran,
		To:        models.Ayaan,
		Title:     "Stargazing",
		Date:      time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "21:00",
		Status:    models.InvitationPending,
		CreatedAt: now,
	}
	require.NoError(t, invitations.Create(ctx, inv))

	first, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	derived, err := first.Accept(models.Ayaan, "Yes!", now)
	require.NoError(t, err)
	derived.ID = uuid.NewString()
	require.NoError(t, invitations.Accept(ctx, first, derived))

	second, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, second.Status)

	// A stale copy still believes the invitation is pending.
	stale := *inv
	again, err := stale.Accept(models.Ayaan, "Yes again", now)
	require.NoError(t, err)
	again.ID = uuid.NewString()
	assert.ErrorIs(t, invitations.Accept(ctx, &stale, again), ErrConflict)

	_, err = dates.GetByID(ctx, again.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := dates.GetByID(ctx, derived.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.True(t, stored.Comments[0].IsAcceptanceNote)
}

func TestDateRepository_UpdateReturnsBeforeAndAfter(t *testing.T) {
	pool := testPool(t)
	repo := NewDateRepository(pool)
	ctx := context.Background()

	d := &models.DateEvent{
		ID:        uuid.NewString(),
		Title:     "Bowling",
		Date:      time.Now().UTC(),
		CreatedBy: models.Ayaan,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, d))

	before, after, err := repo.Update(ctx, d.ID, func(d *models.DateEvent) error {
		d.Comments = append(d.Comments, models.Comment{Text: "Strike!", Author: models.Simran, Timestamp: time.Now().UTC()})
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, before.Comments)
	assert.Len(t, after.Comments, 1)

	_, _, err = repo.Update(ctx, uuid.NewString(), func(*models.DateEvent) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMilestoneRepository_ClaimOnce(t *testing.T) {
	pool := testPool(t)
	repo := NewMilestoneRepository(pool)
	ctx := context.Background()

	m := &models.Milestone{
		ID:       uuid.NewString(),
		Type:     "test-" + uuid.NewString(),
		Title:    "10th Date!",
		Icon:     "🔟",
		Achieved: time.Now().UTC(),
	}
	won, err := repo.Claim(ctx, m)
	require.NoError(t, err)
	assert.True(t, won)

	again := *m
	again.ID = uuid.NewString()
	won, err = repo.Claim(ctx, &again)
	require.NoError(t, err)
	assert.False(t, won)

	countType := func() int {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		n := 0
		for _, got := range all {
			if got.Type == m.Type {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countType())

	require.NoError(t, repo.Release(ctx, m.Type))
	assert.Equal(t, 0, countType())
}
