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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "./data/status.db", cfg.Storage.Path)
	assert.Equal(t, 1024, cfg.Matcher.CacheSize)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9999"
storage:
  path: /tmp/x.db
matcher:
  cache_size: 64
log:
  level: debug
`), 0o600))
	t.Setenv("STATUS_ADMIN_AUTH_USERNAME", "ops")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.Path)
	assert.Equal(t, 64, cfg.Matcher.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ops", cfg.Auth.Username)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unterminated"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
