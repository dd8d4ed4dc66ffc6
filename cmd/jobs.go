package cmd

import (
	"context"

	"date-journal-backend/internal/config"
	"date-journal-backend/internal/jobs"
	"date-journal-backend/internal/notify"

	"github.com/rs/zerolog/log"
)

// engineJobs returns the periodic jobs of the notification engine
func engineJobs(cfg *config.Config, engine *notify.Engine) []jobs.Job {
	return []jobs.Job{
		{
			Name:     "reminders",
			Interval: cfg.Schedule.ReminderInterval,
			Task: func(ctx context.Context) error {
				sent, err := engine.CheckUpcomingDates(ctx)
				if err != nil {
					return err
				}
				log.Info().Int("sent", sent).Msg("Reminder check finished")
				return nil
			},
		},
		{
			Name:     "cleanup",
			Interval: cfg.Schedule.CleanupInterval,
			Task: func(ctx context.Context) error {
				deleted, err := engine.CleanupSentNotifications(ctx)
				if err != nil {
					return err
				}
				log.Info().Int("deleted", deleted).Msg("Sent notification cleanup finished")
				return nil
			},
		},
		{
			Name:       "milestones",
			Interval:   cfg.Schedule.MilestoneInterval,
			RunOnStart: true,
			Task: func(ctx context.Context) error {
				achieved, err := engine.CheckMilestones(ctx)
				if err != nil {
					return err
				}
				if achieved > 0 {
					log.Info().Int("achieved", achieved).Msg("Milestones achieved")
				}
				return nil
			},
		},
	}
}
