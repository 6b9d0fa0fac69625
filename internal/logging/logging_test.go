package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConsoleAndJSON(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := New(Config{Level: "info", Format: format})
		require.NoError(t, err, "format %s", format)
		l.Sync()
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "chatty", Format: "console"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewWithFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")

	l, err := New(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	l.Info("hello")
	l.Sync()

	assert.FileExists(t, path)
}
