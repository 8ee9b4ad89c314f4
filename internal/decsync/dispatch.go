package decsync

import "fmt"

// ExecuteNewEntriesAt implements the single-location half of §4.5 step 6:
// ingest peerAppID's unread bytes at path, then invoke the sync-complete
// callback. Used by the change dispatcher in response to one filesystem
// event, as opposed to ExecuteAllNewEntries' full sweep.
func (d *Decsync) ExecuteNewEntriesAt(peerAppID string, path []string, extra any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	loc := d.newEntriesLocation(path, peerAppID)
	if err := d.executeEntriesLocation(loc, extra, nil, nil); err != nil {
		return fmt.Errorf("decsync: executing entries location: %w", err)
	}

	if d.onSyncComplete != nil {
		d.onSyncComplete(extra)
	}

	return nil
}
