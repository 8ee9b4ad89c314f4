package decsync

import (
	"fmt"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// ExecuteStoredEntries implements §4.4.5: replay the already-materialized
// stored view under executePath to listeners, without touching any
// new-entries cursor. Used to dispatch current state to a listener
// registered after startup, and after InitStoredEntries to replay an
// inherited bootstrap view.
func (d *Decsync) ExecuteStoredEntries(
	executePath []string, extra any,
	keyPred, valuePred func(jsonvalue.Value) bool,
	pathPred func([]string) bool,
) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	root := joinUnder(d.storedEntriesDir(d.ownAppID), encodePathSegments(executePath)...)

	leaves, err := logio.ListFilesRecursiveRelative(root, "", pathPred, d.logger)
	if err != nil {
		return fmt.Errorf("decsync: listing stored-entries: %w", err)
	}

	for _, leaf := range leaves {
		fullPath := append(append([]string{}, executePath...), leaf...)

		loc := d.storedEntriesLocation(fullPath)
		if err := d.executeEntriesLocation(loc, extra, keyPred, valuePred); err != nil {
			d.logger.Error("replaying stored entries failed",
				"path", fullPath, "error", err.Error())
		}
	}

	return nil
}
