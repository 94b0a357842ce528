package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	logger, sessionID, err := New(Options{Dir: dir})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NotEmpty(t, sessionID)

	logger.Info("dropped")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no-op logger must not create files")
}

func TestNewFileLoggerWritesSessionID(t *testing.T) {
	dir := t.TempDir()
	logger, sessionID, err := New(Options{ToFile: true, Dir: dir})
	require.NoError(t, err)

	logger.Info("hearts away")
	require.NoError(t, logger.Sync())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "heartrain-"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".log"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hearts away")
	assert.Contains(t, string(data), sessionID)
}

func TestNewAppendsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	first, firstID, err := New(Options{ToFile: true, Dir: dir})
	require.NoError(t, err)
	first.Info("one")
	require.NoError(t, first.Sync())

	second, secondID, err := New(Options{ToFile: true, Dir: dir})
	require.NoError(t, err)
	second.Info("two")
	require.NoError(t, second.Sync())

	assert.NotEqual(t, firstID, secondID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "same-day sessions share one file")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "one")
	assert.Contains(t, string(data), "two")
}

func TestVerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()

	quiet, _, err := New(Options{ToFile: true, Dir: dir})
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel))

	loud, _, err := New(Options{ToFile: true, Verbose: true, Dir: dir})
	require.NoError(t, err)
	assert.True(t, loud.Core().Enabled(zapcore.DebugLevel))
}
