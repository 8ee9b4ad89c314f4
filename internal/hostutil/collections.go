package hostutil

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/internal/pathcodec"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// ListDecsyncCollections implements §6.4: the URL-decoded names of
// non-hidden directories under base/urlenc(syncType). When ignoreDeleted is
// true, a collection is omitted if its stored static value at
// ["info"]/"deleted" is the JSON boolean true.
func ListDecsyncCollections(base, syncType string, ignoreDeleted bool, logger *slog.Logger) ([]string, error) {
	syncTypeDir := DecsyncSubdir(base, syncType, "")

	entries, err := os.ReadDir(syncTypeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("hostutil: listing %s: %w", syncTypeDir, err)
	}

	deletedKey := jsonvalue.String("deleted")

	var collections []string

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		decoded, err := pathcodec.DecodeSegment(name)
		if err != nil {
			logger.Warn("skipping undecodable collection directory name",
				slog.String("name", name), slog.String("error", err.Error()))

			continue
		}

		if ignoreDeleted {
			collectionDir := DecsyncSubdir(base, syncType, decoded)

			value, found, err := decsync.GetStoredStaticValue(collectionDir, []string{"info"}, deletedKey, logger)
			if err != nil {
				logger.Warn("failed to read deletion state, including collection anyway",
					slog.String("collection", decoded), slog.String("error", err.Error()))
			} else if found {
				if deleted, ok := value.AsBool(); ok && deleted {
					continue
				}
			}
		}

		collections = append(collections, decoded)
	}

	return collections, nil
}
