package decsync

import (
	"fmt"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// ExecuteAllNewEntries implements §4.4.4: ingest every peer's unread
// new-entries bytes, then invoke the registered sync-complete callback.
// O(total bytes unread across peers) — may be long-running on large
// namespaces (§5).
func (d *Decsync) ExecuteAllNewEntries(extra any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	newEntriesRoot := joinUnder(d.dir, newEntriesDirName)
	readBytesRoot := d.readBytesDirForApp(d.ownAppID)

	results, err := logio.ListFilesRecursiveRelative(newEntriesRoot, readBytesRoot, d.notOwnAppID, d.logger)
	if err != nil {
		return fmt.Errorf("decsync: listing new-entries: %w", err)
	}

	for _, leaf := range results {
		peerAppID, path := leaf[0], leaf[1:]

		loc := d.newEntriesLocation(path, peerAppID)
		if err := d.executeEntriesLocation(loc, extra, nil, nil); err != nil {
			d.logger.Error("executing entries location failed",
				"peer", peerAppID, "path", path, "error", err.Error())
		}
	}

	if d.onSyncComplete != nil {
		d.onSyncComplete(extra)
	}

	return nil
}

func (d *Decsync) notOwnAppID(path []string) bool {
	return len(path) == 0 || path[0] != d.ownAppID
}

func (d *Decsync) readBytesDirForApp(ownAppID string) string {
	return joinUnder(d.dir, readBytesDirName, pathcodec.EncodeSegment(ownAppID))
}
