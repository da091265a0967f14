package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_message_size: 4096

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  max_hint_tokens: 6
  max_fuse_tokens: 4
  include_multicolor: true
  multicolor_wild_hints: true
  snapshot_ttl: 30
  idle_timeout: 5

log:
  dir: "/tmp/fireworks"
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(4096), cfg.Server.MaxMessageSize)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 6, cfg.Game.MaxHintTokens)
	assert.Equal(t, 4, cfg.Game.MaxFuseTokens)
	assert.True(t, cfg.Game.IncludeMulticolor)
	assert.True(t, cfg.Game.MulticolorWildHints)
	assert.False(t, cfg.Game.EndlessMode)
	assert.Equal(t, 30*time.Minute, cfg.Game.SnapshotTTLDuration())
	assert.Equal(t, 5*time.Minute, cfg.Game.IdleTimeoutDuration())
	assert.Equal(t, "/tmp/fireworks", cfg.Log.Dir)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Server.Host, cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, d.Server.MaxMessageSize, cfg.Server.MaxMessageSize)
	assert.Equal(t, d.Redis.Addr, cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Game.MaxHintTokens)
	assert.Equal(t, 3, cfg.Game.MaxFuseTokens)
	assert.Equal(t, 24*time.Hour, cfg.Game.SnapshotTTLDuration())
	assert.Equal(t, 30*time.Minute, cfg.Game.IdleTimeoutDuration())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIREWORKS_SERVER_PORT", "7000")
	t.Setenv("FIREWORKS_REDIS_ADDR", "cache:6380")
	t.Setenv("FIREWORKS_GAME_ENDLESS_MODE", "true")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\nredis:\n  addr: redis:6379\n"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Game.EndlessMode)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("FIREWORKS_SERVER_PORT", "not-a-port")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "0.0.0.0:1780", cfg.Server.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Game.MaxHintTokens)
	assert.Equal(t, 3, cfg.Game.MaxFuseTokens)
	assert.Empty(t, cfg.Log.Dir)
}
