package decsync

import (
	"log/slog"
	"os"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// location names the logical path and the three files one read operation
// touches (§4.4.2):
// newFile is the log being read, storedFile is the own-appId view it merges
// into (empty means read-only — used for the stored-entries replay case),
// and readBytesFile is the cursor tracking how much of newFile has been
// consumed (empty means always read from the start, never persisted).
type location struct {
	path          []string
	newFile       string
	storedFile    string
	readBytesFile string
}

func (d *Decsync) newEntriesLocation(path []string, peerAppID string) location {
	return location{
		path:          path,
		newFile:       d.newEntriesFile(peerAppID, path),
		storedFile:    d.storedEntriesFile(d.ownAppID, path),
		readBytesFile: d.readBytesFile(d.ownAppID, peerAppID, path),
	}
}

func (d *Decsync) storedEntriesLocation(path []string) location {
	return location{
		path:    path,
		newFile: d.storedEntriesFile(d.ownAppID, path),
	}
}

// executeEntriesLocation implements §4.4.2: read new bytes since the
// cursor, group by key keeping the latest datetime per key, merge into the
// stored view, and dispatch the result to the first matching listener.
func (d *Decsync) executeEntriesLocation(
	loc location, extra any, keyPred, valuePred func(jsonvalue.Value) bool,
) error {
	var readBytes int64
	if loc.readBytesFile != "" {
		readBytes = logio.ReadCursor(loc.readBytesFile)
	}

	size, err := logio.Size(loc.newFile)
	if err != nil {
		return err
	}

	if readBytes >= size {
		return nil
	}

	// Cursor is written before parsing: a crash here biases toward missing
	// an entry over replaying it twice (§4.4.2 step 3, §9).
	if loc.readBytesFile != "" {
		if err := logio.WriteCursor(loc.readBytesFile, size); err != nil {
			return err
		}
	}

	lines, err := logio.ReadEntriesFrom(loc.newFile, readBytes, d.logger)
	if err != nil {
		return err
	}

	filtered := filterEntries(lines, keyPred, valuePred)
	grouped := latestPerKey(filtered)

	surviving, err := updateStoredEntriesFile(loc.storedFile, grouped, d.logger)
	if err != nil {
		// Best-effort durability: merge failures are logged, never
		// propagated (§4.4.3 "Exceptions during merge are caught and
		// logged; they do not propagate").
		d.logger.Error("merging stored entries failed",
			slog.Any("path", loc.path), slog.String("error", err.Error()))

		return nil
	}

	if len(surviving) == 0 {
		return nil
	}

	listener := d.findListener(loc.path)
	if listener == nil {
		d.logger.Error("no listener matches path", slog.Any("path", loc.path))
		return nil
	}

	listener.OnEntriesUpdate(loc.path, surviving, extra)

	return nil
}

func filterEntries(entries []logio.Entry, keyPred, valuePred func(jsonvalue.Value) bool) []logio.Entry {
	if keyPred == nil && valuePred == nil {
		return entries
	}

	out := make([]logio.Entry, 0, len(entries))

	for _, e := range entries {
		if keyPred != nil && !keyPred(e.Key) {
			continue
		}

		if valuePred != nil && !valuePred(e.Value) {
			continue
		}

		out = append(out, e)
	}

	return out
}

// latestPerKey groups entries by structural key equality, keeping the entry
// with the lexicographically greatest datetime in each group (§4.4.2 step
// 6). ISO-8601 datetimes make lexicographic order equal chronological
// order.
func latestPerKey(entries []logio.Entry) []logio.Entry {
	var result []logio.Entry

	for _, e := range entries {
		idx := -1

		for i := range result {
			if result[i].Key.Equal(e.Key) {
				idx = i
				break
			}
		}

		switch {
		case idx == -1:
			result = append(result, e)
		case e.DateTime > result[idx].DateTime:
			result[idx] = e
		}
	}

	return result
}

// updateStoredEntriesFile implements §4.4.2 step 7 / §4.4.3: merge entries
// into storedFile, removing any that lose the last-writer-wins comparison
// against what's already stored, and return the surviving entries — the
// same, now-filtered list the caller must hand to the listener, so an
// entry that loses the merge is never delivered to the application.
// storedFile == "" is the read-only bootstrap case (execute_stored_entries
// replaying an already-converged view): nothing to merge against, so every
// entry survives unchanged.
func updateStoredEntriesFile(storedFile string, entries []logio.Entry, logger *slog.Logger) ([]logio.Entry, error) {
	if storedFile == "" {
		return entries, nil
	}

	working := append([]logio.Entry(nil), entries...)

	haveToFilterFile := false

	if _, err := os.Stat(storedFile); err == nil {
		stored, err := logio.ReadAllLines(storedFile, logger)
		if err != nil {
			return nil, err
		}

		working, haveToFilterFile = reconcileAgainstStored(working, stored)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if haveToFilterFile {
		staleKeys := make([]jsonvalue.Value, len(working))
		for i, e := range working {
			staleKeys[i] = e.Key
		}

		err := logio.FilterFile(storedFile, func(e logio.Entry) bool {
			for _, k := range staleKeys {
				if e.Key.Equal(k) {
					return false
				}
			}

			return true
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	if len(working) == 0 {
		return working, nil
	}

	if err := logio.AppendEntries(storedFile, working); err != nil {
		return nil, err
	}

	return working, nil
}

// reconcileAgainstStored implements §4.4.3 step 1: for each stored line,
// any working entry for the same key either supersedes it (stale stored
// line, haveToFilterFile=true, entry kept) or is itself superseded by the
// stored line (entry dropped, stored view already fresher).
func reconcileAgainstStored(working []logio.Entry, stored []logio.Entry) ([]logio.Entry, bool) {
	haveToFilterFile := false

	for _, se := range stored {
		kept := working[:0]

		for _, we := range working {
			switch {
			case !we.Key.Equal(se.Key):
				kept = append(kept, we)
			case we.DateTime > se.DateTime:
				haveToFilterFile = true
				kept = append(kept, we)
			default:
				// stored is fresher or tied; drop the incoming entry.
			}
		}

		working = kept
	}

	return working, haveToFilterFile
}
