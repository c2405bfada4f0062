package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherr "github.com/klondike-tools/dash/errors"
)

func TestLoadFromBytes(t *testing.T) {
	content := `
version: "1.0"
server:
  url: http://tracker.local:9000
  request_timeout: 5s
reconnect:
  base_delay: 250ms
  max_delay: 10s
presence:
  display_name: alice
  expiry: 2m
bulk:
  concurrency: 8
log_level: debug
`
	cfg, err := LoadFromBytes([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "http://tracker.local:9000", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectBaseDelay())
	assert.Equal(t, 10*time.Second, cfg.ReconnectMaxDelay())
	assert.Equal(t, 2*time.Minute, cfg.PresenceExpiry())
	assert.Equal(t, 8, cfg.BulkConcurrency())
	assert.Equal(t, "alice", cfg.Presence.DisplayName)
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081", cfg.Server.URL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Second, cfg.ReconnectBaseDelay())
	assert.Equal(t, 30*time.Second, cfg.ReconnectMaxDelay())
	assert.Equal(t, time.Duration(0), cfg.PresenceExpiry())
	assert.Equal(t, 4, cfg.BulkConcurrency())
}

func TestWebSocketURLs(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("version: \"1.0\"\nserver:\n  url: http://tracker.local:9000\n"))
	require.NoError(t, err)
	assert.Equal(t, "ws://tracker.local:9000/api/updates", cfg.UpdatesURL())
	assert.Equal(t, "ws://tracker.local:9000/ws/presence", cfg.PresenceURL())

	cfg, err = LoadFromBytes([]byte("version: \"1.0\"\nserver:\n  url: https://tracker.example.com\n  updates_path: /live\n"))
	require.NoError(t, err)
	assert.Equal(t, "wss://tracker.example.com/live", cfg.UpdatesURL())
}

func TestEnvVarExpansion(t *testing.T) {
	t.Setenv("DASH_TEST_SERVER", "http://expanded:1234")

	cfg, err := LoadFromBytes([]byte("version: \"1.0\"\nserver:\n  url: ${DASH_TEST_SERVER}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://expanded:1234", cfg.Server.URL)
}

func TestValidationRejectsBadValues(t *testing.T) {
	_, err := LoadFromBytes([]byte("version: \"1.0\"\ntui:\n  theme: neon\n"))
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeConfigValidation))

	_, err = LoadFromBytes([]byte("version: \"1.0\"\nbulk:\n  concurrency: 0\n"))
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeConfigValidation))
}

func TestExtensionsPreservedAndDecoded(t *testing.T) {
	content := `
version: "1.0"
myplugin:
  endpoint: http://plugin.local
  retries: 3
`
	cfg, err := LoadFromBytes([]byte(content))
	require.NoError(t, err)
	require.Contains(t, cfg.Extensions, "myplugin")

	var pluginCfg struct {
		Endpoint string `yaml:"endpoint"`
		Retries  int    `yaml:"retries"`
	}
	require.NoError(t, cfg.UnmarshalExtension("myplugin", &pluginCfg))
	assert.Equal(t, "http://plugin.local", pluginCfg.Endpoint)
	assert.Equal(t, 3, pluginCfg.Retries)

	// Missing extension leaves the target zero-valued.
	var missing struct {
		Endpoint string `yaml:"endpoint"`
	}
	require.NoError(t, cfg.UnmarshalExtension("absent", &missing))
	assert.Empty(t, missing.Endpoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/dash.yml")
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeConfigNotFound))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dash.yml"
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Version)
}
