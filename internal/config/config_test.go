package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mahjong", cfg.App.Name)
	assert.Equal(t, []int{0}, cfg.Game.HumanSeats)
	assert.True(t, cfg.Game.SevenPairs)
	assert.Equal(t, 30*time.Minute, cfg.Game.EvictTimeout)
	assert.Equal(t, "balanced", cfg.AI.Profile)
	assert.Equal(t, 4, cfg.Simulate.Workers)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
	assert.Equal(t, "postgres://postgres:@127.0.0.1:5432/mahjong?sslmode=disable", cfg.Database.DSN())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mahjong", cfg.App.Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: table-test
game:
  human_seats: [0, 2]
  seven_pairs: false
  evict_timeout: 5m
ai:
  profile: aggressive
  seat_profiles:
    1: defensive
  profiles:
    quick:
      rollouts: 8
      depth: 4
      attack_bias: 0.7
      defense_bias: 0.3
      call_aggressiveness: 0.2
redis:
  enabled: true
  snapshot_ttl: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "table-test", cfg.App.Name)
	assert.Equal(t, []int{0, 2}, cfg.Game.HumanSeats)
	assert.False(t, cfg.Game.SevenPairs)
	assert.Equal(t, 5*time.Minute, cfg.Game.EvictTimeout)
	assert.Equal(t, "aggressive", cfg.AI.Profile)
	assert.Equal(t, "defensive", cfg.AI.SeatProfiles[1])
	assert.Equal(t, ProfileConfig{Rollouts: 8, Depth: 4, AttackBias: 0.7, DefenseBias: 0.3, CallAggressiveness: 0.2},
		cfg.AI.Profiles["quick"])
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SnapshotTTL)
	// 未配置的项保留默认值
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MAHJONG_APP_LOG_LEVEL", "debug")
	t.Setenv("MAHJONG_SIMULATE_GAMES", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 7, cfg.Simulate.Games)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  human_seats: [5]\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRepositoryConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "aggressive", cfg.AI.SeatProfiles[1])
	assert.Contains(t, cfg.AI.Profiles, "quick")
}
