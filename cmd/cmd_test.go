package cmd

import (
	"testing"
	"time"

	"date-journal-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineJobs(t *testing.T) {
	cfg, err := config.Parse([]byte(`relationship: {anniversary: "2025-10-14"}`))
	require.NoError(t, err)

	all := engineJobs(cfg, nil)
	require.Len(t, all, 3)

	reminders, ok := findJob(all, "reminders")
	require.True(t, ok)
	assert.Equal(t, time.Hour, reminders.Interval)

	cleanup, ok := findJob(all, "cleanup")
	require.True(t, ok)
	assert.Equal(t, 24*time.Hour, cleanup.Interval)

	milestones, ok := findJob(all, "milestones")
	require.True(t, ok)
	assert.True(t, milestones.RunOnStart)

	_, ok = findJob(all, "backup")
	assert.False(t, ok)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogger(config.LogConfig{Level: "warn", Format: "json"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	setupLogger(config.LogConfig{Level: "loud"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
