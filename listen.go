package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/internal/hostutil"
	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/internal/watch"
)

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Watch the decsync directory and apply peer updates as they arrive",
		Long: `Run a long-lived daemon (§4.5, §9): on startup, perform a full
ExecuteAllNewEntries sweep, then watch new-entries for filesystem changes
and dispatch each one incrementally. SIGINT/SIGTERM shut down gracefully;
SIGHUP forces a full rescan (useful if events were missed while the
process was stopped).

Only one listen daemon may run at a time, enforced by a PID file lock in
the default data directory; the lock is shared by every decsync directory.`,
		RunE: runListen,
	}
}

func runListen(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	dir := collectionDir(cc)

	pidPath := filepath.Join(hostutil.DefaultDataDir(), "listen.pid")

	cleanup, err := writePIDFile(pidPath)
	if err != nil {
		return err
	}
	defer cleanup()

	color := stdoutIsTTY()

	listener := decsync.NewSubdirListener(nil, func(path []string, entry logio.Entry, _ any) {
		line := fmt.Sprintf("[%s] %s = %s", entry.DateTime, filepath.Join(path...), valuePreview(entry))
		fmt.Fprintln(os.Stdout, colorizeEvent(color, line))
	})

	eng := decsync.New(dir, cc.AppID, cc.Logger, []decsync.Listener{listener})
	eng.SetSyncCompleteFunc(func(any) {
		cc.Logger.Debug("sync pass complete")
	})

	ctx := shutdownContext(cmd.Context(), cc.Logger)

	statusf(flagQuiet, "Listening on %s as %s\n", dir, cc.AppID)

	if err := eng.ExecuteAllNewEntries(nil); err != nil {
		return fmt.Errorf("initial sync sweep: %w", err)
	}

	dispatcher := watch.NewDispatcher(dir, eng, cc.AppID, cc.Logger, nil)

	go watchSIGHUP(ctx, cc.Logger, func() {
		if err := eng.ExecuteAllNewEntries(nil); err != nil {
			cc.Logger.Error("forced rescan failed", slog.String("error", err.Error()))
		}
	})

	watcher := watch.NewFsnotifyWatcher(cc.Logger)

	return watcher.Watch(ctx, dispatcher.NewEntriesRoot(), dispatcher.Dispatch)
}

// watchSIGHUP invokes rescan each time the process receives SIGHUP, until
// ctx is canceled.
func watchSIGHUP(ctx context.Context, logger *slog.Logger, rescan func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			logger.Info("received SIGHUP, forcing full rescan")
			rescan()
		}
	}
}

func valuePreview(entry logio.Entry) string {
	out, err := entry.Value.MarshalJSON()
	if err != nil {
		return "<unmarshalable>"
	}

	return string(out)
}
