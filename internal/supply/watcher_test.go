package supply

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForChange(t *testing.T, w *Watcher, want string) bool {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case <-deadline:
			return false
		case <-time.After(50 * time.Millisecond):
			for _, p := range w.ChangedSince(5 * time.Second) {
				if filepath.Base(p) == want {
					return true
				}
			}
		}
	}
}

func TestWatcher_TracksCandidateFiles(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root, []string{".git"}, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("x = 1"), 0o644))

	assert.True(t, waitForChange(t, w, "app.js"), "write to a candidate file should be tracked")
}

func TestWatcher_IgnoresNonCandidates(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root, nil, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644))

	// Give the event time to arrive, then confirm nothing was recorded.
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, w.ChangedSince(5*time.Second))
}

func TestWatcher_WindowExpiry(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root, nil, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "late.css"), []byte("a {}"), 0o644))
	require.True(t, waitForChange(t, w, "late.css"))

	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, w.ChangedSince(100*time.Millisecond), "entries older than the window are dropped")
}
