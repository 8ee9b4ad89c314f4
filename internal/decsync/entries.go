package decsync

import (
	"fmt"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// KeyValue is one key/value assignment passed to SetEntries.
type KeyValue struct {
	Key   jsonvalue.Value
	Value jsonvalue.Value
}

// SetEntry appends a single timestamped assignment to path (§3.4).
func (d *Decsync) SetEntry(path []string, key, value jsonvalue.Value) error {
	return d.SetEntries(path, []KeyValue{{Key: key, Value: value}})
}

// SetEntries timestamps each key/value pair with the current UTC wall clock
// and appends them together to path (§3.4).
func (d *Decsync) SetEntries(path []string, kvs []KeyValue) error {
	now := logio.NowDateTime()

	entries := make([]logio.Entry, len(kvs))
	for i, kv := range kvs {
		entries[i] = logio.Entry{DateTime: now, Key: kv.Key, Value: kv.Value}
	}

	return d.SetEntriesForPath(path, entries)
}

// SetEntriesForPath is the core write operation (§4.4.1): append entries to
// own new-entries log, bump the sequence file on every ancestor directory,
// then merge entries into own stored-entries view. Step order is fixed —
// the log must be durable before the sequence bump makes it visible to
// peers, and the stored view is updated last so a crash between steps is
// recoverable by re-ingesting own log.
func (d *Decsync) SetEntriesForPath(path []string, entries []logio.Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	newFile := d.newEntriesFile(d.ownAppID, path)
	if err := logio.AppendEntries(newFile, entries); err != nil {
		return fmt.Errorf("decsync: appending entries: %w", err)
	}

	if err := d.bumpSequenceChain(path); err != nil {
		return fmt.Errorf("decsync: bumping sequence: %w", err)
	}

	storedFile := d.storedEntriesFile(d.ownAppID, path)
	if _, err := updateStoredEntriesFile(storedFile, entries, d.logger); err != nil {
		d.logger.Error("updating own stored entries failed",
			"path", path, "error", err.Error())
	}

	return nil
}

// bumpSequenceChain increments the sequence file of every strict prefix
// directory of path under own new-entries tree, including the root (§4.4.1
// step 3).
func (d *Decsync) bumpSequenceChain(path []string) error {
	for i := 0; i < len(path); i++ {
		dir := d.newEntriesDirForPrefix(d.ownAppID, path[:i])
		if err := logio.BumpSequence(dir); err != nil {
			return err
		}
	}

	return nil
}
