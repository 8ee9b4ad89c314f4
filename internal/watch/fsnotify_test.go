package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWatcher is a minimal FsWatcher double driven directly by tests,
// avoiding a dependency on real OS filesystem event delivery.
type fakeWatcher struct {
	added  []string
	events chan fsnotify.Event
	errs   chan error
	closed bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan fsnotify.Event, 8),
		errs:   make(chan error, 8),
	}
}

func (f *fakeWatcher) Add(name string) error { f.added = append(f.added, name); return nil }
func (f *fakeWatcher) Remove(string) error   { return nil }

func (f *fakeWatcher) Close() error {
	f.closed = true
	return nil
}

func (f *fakeWatcher) Events() <-chan fsnotify.Event { return f.events }
func (f *fakeWatcher) Errors() <-chan error           { return f.errs }

func TestFsnotifyWatcher_AddsWatchesRecursively(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A", "cards"), 0o755))

	fw := newFakeWatcher()

	w := &FsnotifyWatcher{
		logger:         testLogger(),
		watcherFactory: func() (FsWatcher, error) { return fw, nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var delivered []string

	err := w.Watch(ctx, root, func(relPath string) { delivered = append(delivered, relPath) })
	require.NoError(t, err)

	assert.Contains(t, fw.added, root)
	assert.Contains(t, fw.added, filepath.Join(root, "A"))
	assert.Contains(t, fw.added, filepath.Join(root, "A", "cards"))
	assert.True(t, fw.closed)
}

func TestFsnotifyWatcher_DeliversWriteEventsRelativeToRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "info"), []byte(""), 0o644))

	fw := newFakeWatcher()

	w := &FsnotifyWatcher{
		logger:         testLogger(),
		watcherFactory: func() (FsWatcher, error) { return fw, nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delivered []string
	done := make(chan struct{})

	go func() {
		_ = w.Watch(ctx, root, func(relPath string) { delivered = append(delivered, relPath) })
		close(done)
	}()

	fw.events <- fsnotify.Event{Name: filepath.Join(root, "A", "info"), Op: fsnotify.Write}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	require.Len(t, delivered, 1)
	assert.Equal(t, "A/info", delivered[0])
}

func TestFsnotifyWatcher_AddsWatchOnNewDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	newDir := filepath.Join(root, "B")
	require.NoError(t, os.MkdirAll(newDir, 0o755))

	fw := newFakeWatcher()

	w := &FsnotifyWatcher{
		logger:         testLogger(),
		watcherFactory: func() (FsWatcher, error) { return fw, nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})

	go func() {
		_ = w.Watch(ctx, root, func(string) {})
		close(done)
	}()

	fw.events <- fsnotify.Event{Name: newDir, Op: fsnotify.Create}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, fw.added, newDir)
}
