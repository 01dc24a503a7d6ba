package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"info":  slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Verbose: true, Stderr: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("action attached", "key", "SyncMovie&traktId=1")
	assert.Contains(t, buf.String(), "key=SyncMovie&traktId=1")
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Stderr: &buf})
	require.NoError(t, err)

	logger.Info("action started")
	assert.Empty(t, buf.String())
}

func TestNew_TeesIntoFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "reelsync.log")
	logger, closer, err := New(Options{File: path, MaxSizeMB: 1, Stderr: &buf})
	require.NoError(t, err)

	logger.Info("scheduler starting")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scheduler starting")
	assert.Contains(t, buf.String(), "scheduler starting")
}
