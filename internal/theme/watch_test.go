package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTheme(t *testing.T, path string, th *Theme) {
	t.Helper()
	require.NoError(t, th.Save(path))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeTheme(t, path, Default())

	reloaded := make(chan *Theme, 4)
	w, err := NewWatcher(path, func(th *Theme) { reloaded <- th }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	edited := Default()
	edited.Title = "Renamed Rain"
	writeTheme(t, path, edited)

	select {
	case th := <-reloaded:
		assert.Equal(t, "Renamed Rain", th.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for theme reload")
	}

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Reloads, 1)
	assert.False(t, stats.LastEventTime.IsZero())
}

func TestWatcherKeepsPreviousThemeOnInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeTheme(t, path, Default())

	reloaded := make(chan *Theme, 4)
	w, err := NewWatcher(path, func(th *Theme) { reloaded <- th }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("palette: [999]\n"), 0644))

	// The invalid edit must be counted but never delivered.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case th := <-reloaded:
			t.Fatalf("invalid theme was delivered: %+v", th)
		case <-deadline:
			t.Fatal("timed out waiting for invalid edit to be rejected")
		case <-time.After(100 * time.Millisecond):
		}
		if w.Stats().InvalidEdits >= 1 {
			break
		}
	}
	assert.Equal(t, 0, w.Stats().Reloads)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeTheme(t, path, Default())

	reloaded := make(chan *Theme, 4)
	w, err := NewWatcher(path, func(th *Theme) { reloaded <- th }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	select {
	case <-reloaded:
		t.Fatal("sibling file triggered a reload")
	case <-time.After(1200 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeTheme(t, path, Default())

	w, err := NewWatcher(path, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	w.Stop()
	assert.False(t, w.IsWatching())
	w.Stop() // second stop must not panic or block
}

func TestWatcherStartFailureReleasesHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "theme.yaml")

	w, err := NewWatcher(path, nil, zap.NewNop())
	require.NoError(t, err)

	// The parent directory does not exist, so watching cannot begin. The
	// fsnotify handle must be closed on this path or its goroutine leaks,
	// which the package's goleak verification would catch.
	require.Error(t, w.Start(context.Background()))
	assert.False(t, w.IsWatching())

	w.Stop() // must not panic or block after a failed start
}

func TestWatcherStartTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeTheme(t, path, Default())

	w, err := NewWatcher(path, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx)) // no-op while running
	w.Stop()
}
