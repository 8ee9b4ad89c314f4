// Package watch adapts an external recursive directory watcher into calls
// against the convergence engine (§4.5, §9 "Watcher abstraction"). The
// watcher itself is a collaborator outside the convergence engine's scope;
// this package owns only the glue between raw filesystem events and
// Dispatcher.Dispatch.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Constants governing watch setup resilience, mirroring the host's
// convention for backing off repeated watcher errors rather than giving up
// after the first one.
const (
	watchErrInitBackoff = 1 * time.Second
	watchErrMaxBackoff  = 30 * time.Second
	watchErrBackoffMult = 2
	safetyScanInterval  = 5 * time.Minute
)

// FsWatcher abstracts filesystem event monitoring. Satisfied by
// *fsnotify.Watcher; tests inject a mock implementation.
type FsWatcher interface {
	Add(name string) error
	Remove(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

// fsnotifyWrapper adapts *fsnotify.Watcher to FsWatcher — fsnotify exposes
// Events and Errors as public fields, not methods.
type fsnotifyWrapper struct {
	w *fsnotify.Watcher
}

func (fw *fsnotifyWrapper) Add(name string) error         { return fw.w.Add(name) }
func (fw *fsnotifyWrapper) Remove(name string) error      { return fw.w.Remove(name) }
func (fw *fsnotifyWrapper) Close() error                  { return fw.w.Close() }
func (fw *fsnotifyWrapper) Events() <-chan fsnotify.Event { return fw.w.Events }
func (fw *fsnotifyWrapper) Errors() <-chan error          { return fw.w.Errors }

// FsnotifyWatcher recursively watches a directory tree and forwards every
// relevant event to a Dispatcher. New subdirectories (appId and path
// segments are created lazily as peers write) are added to the watch as
// they appear.
type FsnotifyWatcher struct {
	logger         *slog.Logger
	watcherFactory func() (FsWatcher, error)
}

// NewFsnotifyWatcher constructs a watcher backed by the real fsnotify
// library.
func NewFsnotifyWatcher(logger *slog.Logger) *FsnotifyWatcher {
	return &FsnotifyWatcher{
		logger: logger,
		watcherFactory: func() (FsWatcher, error) {
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return nil, err
			}

			return &fsnotifyWrapper{w: w}, nil
		},
	}
}

// Watch monitors root for changes and calls handler with each event's path
// relative to root, using forward slashes. It blocks until ctx is canceled,
// returning nil in that case. A periodic safety re-scan re-adds watches on
// any directory that appeared since the last pass — fsnotify can silently
// miss a watch add during a burst of nested directory creation.
func (w *FsnotifyWatcher) Watch(ctx context.Context, root string, handler func(relPath string)) error {
	watcher, err := w.watcherFactory()
	if err != nil {
		return fmt.Errorf("watch: creating filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addWatchesRecursive(watcher, root); err != nil {
		return fmt.Errorf("watch: adding initial watches: %w", err)
	}

	return w.watchLoop(ctx, watcher, root, handler)
}

func (w *FsnotifyWatcher) watchLoop(ctx context.Context, watcher FsWatcher, root string, handler func(string)) error {
	ticker := time.NewTicker(safetyScanInterval)
	defer ticker.Stop()

	errBackoff := watchErrInitBackoff

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}

			w.handleEvent(watcher, root, ev, handler)

		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}

			w.logger.Warn("filesystem watcher error, continuing after backoff",
				slog.String("error", err.Error()), slog.Duration("backoff", errBackoff))

			time.Sleep(errBackoff)

			errBackoff *= watchErrBackoffMult
			if errBackoff > watchErrMaxBackoff {
				errBackoff = watchErrMaxBackoff
			}

		case <-ticker.C:
			if err := w.addWatchesRecursive(watcher, root); err != nil {
				w.logger.Warn("safety re-scan failed", slog.String("error", err.Error()))
			}

			errBackoff = watchErrInitBackoff
		}
	}
}

func (w *FsnotifyWatcher) handleEvent(watcher FsWatcher, root string, ev fsnotify.Event, handler func(string)) {
	rel, err := filepath.Rel(root, ev.Name)
	if err != nil {
		w.logger.Warn("event outside watched root", slog.String("path", ev.Name), slog.String("error", err.Error()))
		return
	}

	rel = filepath.ToSlash(rel)

	if ev.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
			if addErr := watcher.Add(ev.Name); addErr != nil {
				w.logger.Warn("failed to add watch for new directory",
					slog.String("path", ev.Name), slog.String("error", addErr.Error()))
			}

			return
		}
	}

	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	handler(rel)
}

func (w *FsnotifyWatcher) addWatchesRecursive(watcher FsWatcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("walk error during watch setup",
				slog.String("path", path), slog.String("error", walkErr.Error()))

			return skipEntry(d)
		}

		if !d.IsDir() {
			return nil
		}

		if addErr := watcher.Add(path); addErr != nil {
			w.logger.Warn("failed to add watch", slog.String("path", path), slog.String("error", addErr.Error()))
		}

		return nil
	})
}

func skipEntry(d fs.DirEntry) error {
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}

	return nil
}
