package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// Engine is the subset of *decsync.Decsync the dispatcher needs, kept small
// so tests can substitute a recorder.
type Engine interface {
	ExecuteNewEntriesAt(peerAppID string, path []string, extra any) error
}

// Dispatcher maps one raw filesystem change notification, relative to a
// DecsyncDir's new-entries tree, to an engine ingestion call (§4.5).
type Dispatcher struct {
	decsyncDir string
	engine     Engine
	ownAppID   string
	logger     *slog.Logger
	extra      any
}

// NewDispatcher constructs a Dispatcher for one DecsyncDir/engine pair.
// extra is passed through unchanged to every resulting
// ExecuteNewEntriesAt/syncComplete call.
func NewDispatcher(decsyncDir string, engine Engine, ownAppID string, logger *slog.Logger, extra any) *Dispatcher {
	return &Dispatcher{
		decsyncDir: decsyncDir,
		engine:     engine,
		ownAppID:   ownAppID,
		logger:     logger,
		extra:      extra,
	}
}

// NewEntriesRoot is the directory an external watcher should recursively
// monitor; Dispatch expects relPath relative to this root.
func (disp *Dispatcher) NewEntriesRoot() string {
	return filepath.Join(disp.decsyncDir, "new-entries")
}

// Dispatch implements §4.5's steps 1-6 for a single filesystem event path,
// relative to NewEntriesRoot, using forward slashes.
func (disp *Dispatcher) Dispatch(relPath string) {
	segments := splitNonEmpty(relPath)
	if len(segments) == 0 {
		return
	}

	if strings.HasPrefix(segments[len(segments)-1], ".") {
		return
	}

	decoded, err := decodeAll(segments)
	if err != nil {
		disp.logger.Warn("undecodable path segment in filesystem event",
			slog.String("rel_path", relPath), slog.String("error", err.Error()))

		return
	}

	appID, path := decoded[0], decoded[1:]
	if appID == disp.ownAppID {
		return
	}

	newFile := filepath.Join(append([]string{disp.NewEntriesRoot(), pathcodec.EncodeSegment(appID)}, encodeAll(path)...)...)

	info, err := os.Stat(newFile)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	if err := disp.engine.ExecuteNewEntriesAt(appID, path, disp.extra); err != nil {
		disp.logger.Error("dispatching filesystem event failed",
			slog.String("app_id", appID), slog.Any("path", path), slog.String("error", err.Error()))
	}
}

func splitNonEmpty(relPath string) []string {
	parts := strings.Split(filepath.ToSlash(relPath), "/")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func decodeAll(segments []string) ([]string, error) {
	out := make([]string, len(segments))

	for i, s := range segments {
		d, err := pathcodec.DecodeSegment(s)
		if err != nil {
			return nil, err
		}

		out[i] = d
	}

	return out, nil
}

func encodeAll(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = pathcodec.EncodeSegment(s)
	}

	return out
}
