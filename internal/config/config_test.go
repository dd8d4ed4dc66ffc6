package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
database:
  host: localhost
  user: journal
  dbname: journal
relationship:
  anniversary: "2025-10-14"
`

func TestParse_Defaults(t *testing.T) {
	t.Setenv("PUSH_PROVIDER", "")
	t.Setenv("DB_PORT", "")

	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "fcm", cfg.Push.Provider)
	assert.Equal(t, "s3", cfg.Media.Provider)
	assert.False(t, cfg.Push.PruneUnregistered)
	assert.Equal(t, time.Hour, cfg.Schedule.ReminderInterval)
	assert.Equal(t, 2*time.Hour, cfg.Schedule.ReminderLead)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.CleanupInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.Schedule.Retention)

	anniversary, err := cfg.Relationship.AnniversaryDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), anniversary)
}

func TestParse_Durations(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig + `
schedule:
  reminder_interval: 30m
  retention: 72h
`))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.ReminderInterval)
	assert.Equal(t, 72*time.Hour, cfg.Schedule.Retention)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("PUSH_PROVIDER", "expo")

	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "expo", cfg.Push.Provider)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`relationship: {anniversary: "14/10/2025"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(minimalConfig + "push:\n  provider: pigeon\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("database: ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=journal password= dbname=journal sslmode=disable", cfg.Database.DSN())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
