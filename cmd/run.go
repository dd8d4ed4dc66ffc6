package cmd

import (
	"fmt"

	"date-journal-backend/internal/jobs"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:       "run [reminders|cleanup|milestones]",
	Short:     "Run one periodic job once and exit",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"reminders", "cleanup", "milestones"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		engine, err := newEngine(ctx, cfg, db)
		if err != nil {
			return err
		}

		job, ok := findJob(engineJobs(cfg, engine), args[0])
		if !ok {
			return fmt.Errorf("unknown job %q", args[0])
		}
		return job.Task(ctx)
	},
}

func findJob(all []jobs.Job, name string) (jobs.Job, bool) {
	for _, j := range all {
		if j.Name == name {
			return j, true
		}
	}
	return jobs.Job{}, false
}
