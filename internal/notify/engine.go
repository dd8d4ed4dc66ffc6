package notify

import (
	"context"
	"fmt"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DateStore reads the date collection
type DateStore interface {
	List(ctx context.Context) ([]*models.DateEvent, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.DateEvent, error)
}

// Ledger records scheduled notifications that have fired
type Ledger interface {
	HasFired(ctx context.Context, key string) (bool, error)
	Claim(ctx context.Context, rec *models.SentNotification) (bool, error)
	Release(ctx context.Context, key string) error
	ListSentBefore(ctx context.Context, cutoff time.Time) ([]*models.SentNotification, error)
	Delete(ctx context.Context, key string) error
}

// MilestoneStore records achieved milestones, one per type
type MilestoneStore interface {
	Claim(ctx context.Context, m *models.Milestone) (bool, error)
	Release(ctx context.Context, milestoneType string) error
}

// Options holds the engine settings
type Options struct {
	Anniversary  time.Time
	ReminderLead time.Duration
	Retention    time.Duration
	Now          func() time.Time
}

// Engine wires the rules to the ledger, the resolver and the dispatcher
type Engine struct {
	dates      DateStore
	ledger     Ledger
	milestones MilestoneStore
	resolver   *Resolver
	dispatcher *Dispatcher
	opts       Options
}

// NewEngine creates a new notification engine
func NewEngine(
	dates DateStore,
	ledger Ledger,
	milestones MilestoneStore,
	resolver *Resolver,
	dispatcher *Dispatcher,
	opts Options,
) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ReminderLead == 0 {
		opts.ReminderLead = 2 * time.Hour
	}
	if opts.Retention == 0 {
		opts.Retention = 7 * 24 * time.Hour
	}
	return &Engine{
		dates:      dates,
		ledger:     ledger,
		milestones: milestones,
		resolver:   resolver,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// HandleChange is the change bus subscriber
func (e *Engine) HandleChange(ctx context.Context, change events.Change) {
	switch change.Collection {
	case events.Dates:
		if change.Kind == events.Modified {
			before, _ := change.Before.(*models.DateEvent)
			after, _ := change.After.(*models.DateEvent)
			e.OnDateUpdated(ctx, change.DocumentID, before, after)
		}
		if _, err := e.CheckMilestones(ctx); err != nil {
			log.Error().Err(err).Str("date_id", change.DocumentID).Msg("Failed to check milestones")
		}
	case events.Invitations:
		if change.Kind == events.Added {
			if inv, ok := change.After.(*models.Invitation); ok {
				e.OnInvitationCreated(ctx, inv)
			}
		}
	}
}

// OnDateUpdated notifies the partner about new comments and voice notes
func (e *Engine) OnDateUpdated(ctx context.Context, dateID string, before, after *models.DateEvent) {
	for _, n := range EvaluateDateUpdate(dateID, before, after) {
		if _, err := e.deliver(ctx, n); err != nil {
			log.Error().Err(err).Str("type", n.Type).Str("date_id", dateID).Msg("Failed to deliver notification")
		}
	}
}

// OnInvitationCreated notifies the invited partner
func (e *Engine) OnInvitationCreated(ctx context.Context, inv *models.Invitation) {
	n := EvaluateInvitationCreated(inv)
	if _, err := e.deliver(ctx, n); err != nil {
		log.Error().Err(err).Str("invitation_id", inv.ID).Msg("Failed to deliver invitation notification")
	}
}

// CheckUpcomingDates broadcasts one reminder per date starting within the
// reminder lead. The ledger claim makes overlapping runs safe; a claim is
// released when the send call fails so the next run retries it.
func (e *Engine) CheckUpcomingDates(ctx context.Context) (int, error) {
	now := e.opts.Now()
	dates, err := e.dates.ListBetween(ctx, now, now.Add(e.opts.ReminderLead))
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming dates: %w", err)
	}

	log.Info().Int("count", len(dates)).Msg("Checking upcoming dates")

	sent := 0
	for _, d := range dates {
		if !DueForReminder(d, now, e.opts.ReminderLead) {
			continue
		}
		ok, err := e.remind(ctx, d, now)
		if err != nil {
			log.Error().Err(err).Str("date_id", d.ID).Msg("Failed to send reminder")
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (e *Engine) remind(ctx context.Context, d *models.DateEvent, now time.Time) (bool, error) {
	key := models.ReminderKey(d.ID)

	fired, err := e.ledger.HasFired(ctx, key)
	if err != nil {
		return false, err
	}
	if fired {
		log.Debug().Str("date_id", d.ID).Msg("Already notified about date")
		return false, nil
	}

	n := ReminderNotification(d, e.opts.ReminderLead, now)
	tokens, err := e.resolver.Resolve(ctx, n.Target)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		log.Info().Str("date_id", d.ID).Msg("No device tokens found, reminder skipped")
		return false, nil
	}

	won, err := e.ledger.Claim(ctx, &models.SentNotification{
		Key:    key,
		DateID: d.ID,
		SentAt: now,
		Type:   models.NotificationReminder,
	})
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	if _, err := e.dispatcher.Dispatch(ctx, n, tokens); err != nil {
		if relErr := e.ledger.Release(ctx, key); relErr != nil {
			log.Error().Err(relErr).Str("key", key).Msg("Failed to release reminder claim")
		}
		return false, err
	}
	return true, nil
}

// CleanupSentNotifications deletes ledger records older than the retention.
// A failed delete is logged and left for the next run.
func (e *Engine) CleanupSentNotifications(ctx context.Context) (int, error) {
	now := e.opts.Now()
	records, err := e.ledger.ListSentBefore(ctx, now.Add(-e.opts.Retention))
	if err != nil {
		return 0, fmt.Errorf("failed to list sent notifications: %w", err)
	}

	deleted := 0
	for _, rec := range records {
		if !IsExpired(rec, now, e.opts.Retention) {
			continue
		}
		if err := e.ledger.Delete(ctx, rec.Key); err != nil {
			log.Error().Err(err).Str("key", rec.Key).Msg("Failed to delete sent notification")
			continue
		}
		deleted++
	}

	log.Info().Int("deleted", deleted).Msg("Cleaned up old notification records")
	return deleted, nil
}

// CheckMilestones recomputes the aggregates and records every milestone whose
// threshold is met exactly and was not achieved before
func (e *Engine) CheckMilestones(ctx context.Context) (int, error) {
	now := e.opts.Now()
	dates, err := e.dates.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list dates: %w", err)
	}

	achieved := 0
	for _, def := range EvaluateMilestones(ComputeMetrics(dates, e.opts.Anniversary, now)) {
		m := &models.Milestone{
			ID:       uuid.New().String(),
			Type:     def.Type,
			Title:    def.Title,
			Icon:     def.Icon,
			Achieved: now,
		}
		won, err := e.milestones.Claim(ctx, m)
		if err != nil {
			log.Error().Err(err).Str("milestone", def.Type).Msg("Failed to record milestone")
			continue
		}
		if !won {
			continue
		}
		achieved++
		log.Info().Str("milestone", def.Type).Msg("Milestone achieved")

		if _, err := e.deliver(ctx, MilestoneNotification(m)); err != nil {
			log.Error().Err(err).Str("milestone", def.Type).Msg("Failed to announce milestone")
			if relErr := e.milestones.Release(ctx, def.Type); relErr != nil {
				log.Error().Err(relErr).Str("milestone", def.Type).Msg("Failed to release milestone")
			}
			achieved--
		}
	}
	return achieved, nil
}

// deliver resolves and dispatches n. It reports false when nobody had a
// registered device.
func (e *Engine) deliver(ctx context.Context, n Notification) (bool, error) {
	tokens, err := e.resolver.Resolve(ctx, n.Target)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		log.Info().Str("type", n.Type).Str("target", n.Target.String()).Msg("No device tokens found")
		return false, nil
	}
	if _, err := e.dispatcher.Dispatch(ctx, n, tokens); err != nil {
		return false, err
	}
	return true, nil
}
