package decsync

import (
	"github.com/tjanson/decsync-go/internal/logio"
)

// Listener is the engine's delivery target for merged entries (§6.6). A
// listener is polymorphic over matching and delivery rather than inheriting
// from a base type — matches the reference's "capability pair" design (§9).
type Listener interface {
	MatchesPath(path []string) bool
	OnEntriesUpdate(path []string, entries []logio.Entry, extra any)
}

// EntryCallback receives one entry at a time, with path already adjusted by
// the Listener variant that invoked it (prefix-stripped for a subdir
// listener, unchanged for a subfile listener).
type EntryCallback func(path []string, entry logio.Entry, extra any)

type subdirListener struct {
	subdir   []string
	callback EntryCallback
}

// NewSubdirListener returns a Listener matching any path whose first
// len(subdir) segments equal subdir, delivering each entry individually with
// that prefix stripped (§6.6).
func NewSubdirListener(subdir []string, callback EntryCallback) Listener {
	cp := make([]string, len(subdir))
	copy(cp, subdir)

	return &subdirListener{subdir: cp, callback: callback}
}

func (l *subdirListener) MatchesPath(path []string) bool {
	if len(path) < len(l.subdir) {
		return false
	}

	for i, seg := range l.subdir {
		if path[i] != seg {
			return false
		}
	}

	return true
}

func (l *subdirListener) OnEntriesUpdate(path []string, entries []logio.Entry, extra any) {
	rel := path[len(l.subdir):]
	for _, e := range entries {
		l.callback(rel, e, extra)
	}
}

type subfileListener struct {
	path     []string
	callback EntryCallback
}

// NewSubfileListener returns a Listener matching only the exact path,
// delivering each entry individually (§6.6).
func NewSubfileListener(path []string, callback EntryCallback) Listener {
	cp := make([]string, len(path))
	copy(cp, path)

	return &subfileListener{path: cp, callback: callback}
}

func (l *subfileListener) MatchesPath(path []string) bool {
	return pathsEqual(path, l.path)
}

func (l *subfileListener) OnEntriesUpdate(path []string, entries []logio.Entry, extra any) {
	for _, e := range entries {
		l.callback(path, e, extra)
	}
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func (d *Decsync) findListener(path []string) Listener {
	for _, l := range d.listeners {
		if l.MatchesPath(path) {
			return l
		}
	}

	return nil
}
