package decsync

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// GetStoredStaticValue implements §4.4.7: scan every appId's stored-entries
// file at path for a line whose key matches key, and return the value of
// the one with the greatest datetime across all appIds. No cursor is
// touched — this is a point query, not an ingestion. Used for simple
// queries such as "is this collection deleted?".
func GetStoredStaticValue(
	decsyncDir string, path []string, key jsonvalue.Value, logger *slog.Logger,
) (jsonvalue.Value, bool, error) {
	root := joinUnder(decsyncDir, storedEntriesDirName)

	appDirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return jsonvalue.Value{}, false, nil
		}

		return jsonvalue.Value{}, false, fmt.Errorf("decsync: listing %s: %w", root, err)
	}

	encPath := encodePathSegments(path)

	var (
		best  logio.Entry
		found bool
	)

	for _, appDir := range appDirs {
		name := appDir.Name()
		if !appDir.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		file := joinUnder(root, append([]string{name}, encPath...)...)

		entries, err := logio.ReadAllLines(file, logger)
		if err != nil {
			logger.Warn("skipping unreadable stored-entries file",
				slog.String("file", file), slog.String("error", err.Error()))

			continue
		}

		for _, e := range entries {
			if !e.Key.Equal(key) {
				continue
			}

			if !found || e.DateTime > best.DateTime {
				best, found = e, true
			}
		}
	}

	if !found {
		return jsonvalue.Value{}, false, nil
	}

	return best.Value, true, nil
}
