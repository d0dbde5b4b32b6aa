package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calman/internal/store"
	"calman/internal/value"
)

func startWatcher(t *testing.T, root string) <-chan Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 16)
	w := New(root)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	select {
	case <-w.Started():
	case err := <-done:
		require.NoError(t, err)
		t.Fatal("watcher stopped before starting")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
	return events
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for calibration event")
		return Event{}
	}
}

func TestWatcher_ReportsNewCalibrations(t *testing.T) {
	s, err := store.Open(t.TempDir(), store.WithClock(func() time.Time { return time.Unix(100, 0) }))
	require.NoError(t, err)
	require.NoError(t, s.SaveComponentCalibration("arm", value.MappingOf("old", 1), false))

	events := startWatcher(t, s.Root())

	s2, err := store.Open(s.Root(), store.WithClock(func() time.Time { return time.Unix(200, 0) }))
	require.NoError(t, err)
	require.NoError(t, s2.SaveComponentCalibration("arm", value.MappingOf("new", 2), false))

	ev := nextEvent(t, events)
	assert.Equal(t, "arm", ev.Component)
	assert.Equal(t, int64(200), ev.Timestamp)
	assert.Equal(t, filepath.Join(s.Root(), "arm", "200"), ev.Dir)
}

func TestWatcher_ReportsNewComponents(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	s, err := store.Open(root, store.WithClock(func() time.Time { return time.Unix(300, 0) }))
	require.NoError(t, err)
	require.NoError(t, s.SaveComponentCalibration("camera", value.MappingOf("fx", 600.0), false))

	ev := nextEvent(t, events)
	assert.Equal(t, "camera", ev.Component)
	assert.Equal(t, int64(300), ev.Timestamp)
}

func TestWatcher_IgnoresConfigurationSaves(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	s, err := store.Open(root)
	require.NoError(t, err)
	require.NoError(t, s.SaveComponentConfig("arm", value.MappingOf("gain", 1.0)))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"))
	err := w.Run(context.Background(), make(chan Event))
	assert.Error(t, err)
}
