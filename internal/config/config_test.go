package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DOMAIN", "MONITOR_ADDR", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"MONITOR_INTERVAL", "MONITOR_TIMEOUT", "MONITOR_SLOW_THRESHOLD",
		"MONITOR_FAILURE_THRESHOLD", "MONITOR_RECOVERY_THRESHOLD",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadMissingDomainIsFatal(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOMAIN is required")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMAIN", "proxy.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "proxy.example.com", cfg.Domain)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 300*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Monitor.SlowThreshold)
	assert.Equal(t, 2, cfg.Monitor.FailureThreshold)
	assert.Equal(t, 2, cfg.Monitor.RecoveryThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMAIN", "proxy.example.com")
	t.Setenv("MONITOR_INTERVAL", "60")
	t.Setenv("MONITOR_TIMEOUT", "5")
	t.Setenv("MONITOR_FAILURE_THRESHOLD", "3")
	t.Setenv("MONITOR_RECOVERY_THRESHOLD", "1")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Timeout)
	assert.Equal(t, 3, cfg.Monitor.FailureThreshold)
	assert.Equal(t, 1, cfg.Monitor.RecoveryThreshold)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100123456), cfg.Telegram.ChatIDNum)
}

func TestLoadYAMLFileWithEnvOnTop(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
domain: from-file.example.com
monitor:
  interval: 120
  failure_threshold: 5
log:
  level: debug
`), 0o644))

	// Env wins over the file.
	t.Setenv("MONITOR_INTERVAL", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file.example.com", cfg.Domain)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 5, cfg.Monitor.FailureThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileIsAnError(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMAIN", "proxy.example.com")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"domain is a url", map[string]string{"DOMAIN": "https://proxy.example.com"}},
		{"non-numeric interval", map[string]string{"DOMAIN": "x.com", "MONITOR_INTERVAL": "soon"}},
		{"non-numeric chat id", map[string]string{"DOMAIN": "x.com", "TELEGRAM_CHAT_ID": "@channel"}},
		{"unknown log format", map[string]string{"DOMAIN": "x.com", "LOG_FORMAT": "xml"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestTelegramEnabledNeedsBothCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMAIN", "proxy.example.com")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Telegram.Enabled(), "token without chat id keeps notifications off")
}
