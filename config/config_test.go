package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprouthq/goal-engine/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"GOALS_CONFIG",
		"GOALS_ADDR",
		"GOALS_DB_PATH",
		"GOALS_CORS_ORIGINS",
		"GOALS_SNAPSHOT_INTERVAL",
		"GOALS_SEED_DEMO",
	} {
		require.NoError(t, os.Unsetenv(v))
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "goals-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "goals.db", cfg.DBPath)
	assert.Equal(t, 15*time.Minute, cfg.SnapshotInterval)
	assert.False(t, cfg.SeedDemo)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOALS_ADDR", ":9090")
	t.Setenv("GOALS_DB_PATH", ":memory:")
	t.Setenv("GOALS_SNAPSHOT_INTERVAL", "1m")
	t.Setenv("GOALS_SEED_DEMO", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, time.Minute, cfg.SnapshotInterval)
	assert.True(t, cfg.SeedDemo)
}

func TestLoad_FileThenEnvLayering(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
addr: ":7070"
db_path: "/var/lib/goals/goals.db"
snapshot_interval: 5m
`)
	t.Setenv("GOALS_CONFIG", path)
	t.Setenv("GOALS_ADDR", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr, "env wins over file")
	assert.Equal(t, "/var/lib/goals/goals.db", cfg.DBPath, "file wins over default")
	assert.Equal(t, 5*time.Minute, cfg.SnapshotInterval)
}

func TestLoad_MissingFileFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOALS_CONFIG", "/non/existent/goals.yaml")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOALS_CONFIG", writeConfigFile(t, `addr: [unclosed`))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Addr = ""
	assert.ErrorContains(t, cfg.Validate(), "addr")

	cfg = config.New()
	cfg.DBPath = ""
	assert.ErrorContains(t, cfg.Validate(), "db_path")

	cfg = config.New()
	cfg.SnapshotInterval = -time.Minute
	assert.ErrorContains(t, cfg.Validate(), "snapshot_interval")
}
