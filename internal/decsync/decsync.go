// Package decsync implements the convergence engine: the on-disk layout
// under a DecsyncDir, the new-entries ingestion pipeline, the materialized
// stored-entries view, cursor management, peer bootstrap, and static-value
// queries (§3, §4.4).
package decsync

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/tjanson/decsync-go/internal/pathcodec"
)

const (
	newEntriesDirName    = "new-entries"
	storedEntriesDirName = "stored-entries"
	readBytesDirName     = "read-bytes"
)

// Decsync is one sync namespace rooted at dir. All public operations acquire
// mu, so the engine behaves as single-threaded from the caller's perspective
// (§5): a watcher callback and a user-initiated write never interleave.
type Decsync struct {
	mu       sync.Mutex
	dir      string
	ownAppID string
	logger   *slog.Logger

	listeners      []Listener
	onSyncComplete func(extra any)
}

// New constructs a Decsync engine rooted at dir for ownAppID. The listener
// set is closed at construction (§9 "global listener registry") — register
// every Listener the host needs before first use.
func New(dir, ownAppID string, logger *slog.Logger, listeners []Listener) *Decsync {
	return &Decsync{
		dir:       dir,
		ownAppID:  ownAppID,
		logger:    logger,
		listeners: listeners,
	}
}

// SetSyncCompleteFunc registers the callback invoked after
// ExecuteAllNewEntries and after a dispatched filesystem event finish
// applying entries. Matches the reference's externally-supplied
// syncComplete(extra) hook (§4.4.4, §4.5).
func (d *Decsync) SetSyncCompleteFunc(fn func(extra any)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onSyncComplete = fn
}

// Close releases no resources of its own — the engine performs only
// synchronous I/O and owns no background goroutines or file handles beyond
// the lifetime of a single call. It exists so callers can treat Decsync
// uniformly with other owned components that do need a shutdown hook.
func (d *Decsync) Close() error { return nil }

// OwnAppID returns the identity this engine writes under.
func (d *Decsync) OwnAppID() string { return d.ownAppID }

// Dir returns the DecsyncDir this engine is rooted at.
func (d *Decsync) Dir() string { return d.dir }

func encodePathSegments(path []string) []string {
	out := make([]string, len(path))
	for i, seg := range path {
		out[i] = pathcodec.EncodeSegment(seg)
	}

	return out
}

func joinUnder(base string, parts ...string) string {
	all := make([]string, 0, len(parts)+1)
	all = append(all, base)
	all = append(all, parts...)

	return filepath.Join(all...)
}

func (d *Decsync) newEntriesFile(appID string, path []string) string {
	return joinUnder(d.dir, append([]string{newEntriesDirName, pathcodec.EncodeSegment(appID)}, encodePathSegments(path)...)...)
}

func (d *Decsync) newEntriesDirForPrefix(appID string, prefix []string) string {
	return joinUnder(d.dir, append([]string{newEntriesDirName, pathcodec.EncodeSegment(appID)}, encodePathSegments(prefix)...)...)
}

func (d *Decsync) storedEntriesFile(appID string, path []string) string {
	return joinUnder(d.dir, append([]string{storedEntriesDirName, pathcodec.EncodeSegment(appID)}, encodePathSegments(path)...)...)
}

func (d *Decsync) storedEntriesDir(appID string) string {
	return joinUnder(d.dir, storedEntriesDirName, pathcodec.EncodeSegment(appID))
}

func (d *Decsync) readBytesFile(ownAppID, peerAppID string, path []string) string {
	return joinUnder(d.dir, append(
		[]string{readBytesDirName, pathcodec.EncodeSegment(ownAppID), pathcodec.EncodeSegment(peerAppID)},
		encodePathSegments(path)...)...)
}

func (d *Decsync) newEntriesDirForApp(appID string) string {
	return joinUnder(d.dir, newEntriesDirName, pathcodec.EncodeSegment(appID))
}
