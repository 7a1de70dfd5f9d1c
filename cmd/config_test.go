package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHostConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadHostConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/postings.db", cfg.Database.PostingsPath)
	assert.Equal(t, "data/streaks.db", cfg.Database.StorePath)
	assert.Equal(t, "0 0 2 * * *", cfg.Schedule.BackfillCron)
	assert.Equal(t, 4, cfg.Backfill.Workers)
	assert.False(t, cfg.Backfill.Resume)
	assert.NoError(t, cfg.Validate())
}

func TestLoadHostConfig_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
database:
  postings_path: /var/lib/streak/postings.db
  store_path: /var/lib/streak/streaks.db
schedule:
  backfill_cron: "0 30 3 * * *"
backfill:
  workers: 8
  horizon_end: "2025-08-13"
  resume: true
`)

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/streak/postings.db", cfg.Database.PostingsPath)
	assert.Equal(t, "/var/lib/streak/streaks.db", cfg.Database.StorePath)
	assert.Equal(t, "0 30 3 * * *", cfg.Schedule.BackfillCron)
	assert.Equal(t, 8, cfg.Backfill.Workers)
	assert.Equal(t, "2025-08-13", cfg.Backfill.HorizonEnd)
	assert.True(t, cfg.Backfill.Resume)
}

func TestLoadHostConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  postings_path: from-file.db
`)
	t.Setenv("STREAK_POSTINGS_PATH", "from-env.db")
	t.Setenv("STREAK_BACKFILL_CRON", "0 0 5 * * *")

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Database.PostingsPath)
	assert.Equal(t, "0 0 5 * * *", cfg.Schedule.BackfillCron)
}

func TestLoadHostConfig_MalformedYAML(t *testing.T) {
	_, err := LoadHostConfig(writeConfig(t, "database: ["))
	assert.Error(t, err)
}

func TestHostConfig_Validate_RejectsNegativeWorkers(t *testing.T) {
	path := writeConfig(t, `
backfill:
  workers: -2
`)
	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
