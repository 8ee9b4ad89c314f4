package logio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// ListFilesRecursiveRelative enumerates leaf (non-directory) files under
// srcRoot as lists of decoded path segments (§4.3). Any directory or file
// whose encoded name starts with '.' is skipped entirely — this also
// naturally excludes SequenceFileName itself from the results. If
// readBytesRoot is non-empty, each directory's current sequence file is
// compared against the mirrored directory under readBytesRoot; an exact
// match prunes that whole subtree without recursing, and otherwise the
// current sequence file is copied into the mirror after the subtree has
// been listed (best-effort — errors are logged, never fatal). pathPred, if
// non-nil, is called with each candidate's partial decoded path and may
// prune it (directory or file) by returning false. Names that fail to
// decode are skipped with a warning.
func ListFilesRecursiveRelative(
	srcRoot, readBytesRoot string, pathPred func([]string) bool, logger *slog.Logger,
) ([][]string, error) {
	results, err := walkDir(srcRoot, readBytesRoot, nil, pathPred, logger)
	if err != nil {
		return nil, err
	}

	if readBytesRoot != "" {
		if cpErr := CopySequenceFile(srcRoot, readBytesRoot); cpErr != nil {
			logger.Debug("sequence file cache miss at root (not fatal)",
				slog.String("src", srcRoot), slog.String("error", cpErr.Error()))
		}
	}

	return results, nil
}

func walkDir(
	srcDir, readBytesDir string, prefix []string, pathPred func([]string) bool, logger *slog.Logger,
) ([][]string, error) {
	if readBytesDir != "" && SequenceFilesEqual(srcDir, readBytesDir) {
		return nil, nil
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("logio: reading directory %s: %w", srcDir, err)
	}

	var results [][]string

	for _, entry := range entries {
		children, err := visitEntry(srcDir, readBytesDir, prefix, entry, pathPred, logger)
		if err != nil {
			return nil, err
		}

		results = append(results, children...)
	}

	return results, nil
}

func visitEntry(
	srcDir, readBytesDir string, prefix []string, entry os.DirEntry,
	pathPred func([]string) bool, logger *slog.Logger,
) ([][]string, error) {
	name := entry.Name()
	if strings.HasPrefix(name, ".") {
		return nil, nil
	}

	decoded, err := pathcodec.DecodeSegment(name)
	if err != nil {
		logger.Warn("skipping undecodable path segment",
			slog.String("dir", srcDir), slog.String("name", name), slog.String("error", err.Error()))

		return nil, nil
	}

	candidate := appendPath(prefix, decoded)

	if pathPred != nil && !pathPred(candidate) {
		return nil, nil
	}

	if !entry.IsDir() {
		return [][]string{candidate}, nil
	}

	return visitDir(srcDir, readBytesDir, name, candidate, pathPred, logger)
}

func visitDir(
	srcDir, readBytesDir, name string, candidate []string,
	pathPred func([]string) bool, logger *slog.Logger,
) ([][]string, error) {
	childSrc := filepath.Join(srcDir, name)

	var childReadBytes string
	if readBytesDir != "" {
		childReadBytes = filepath.Join(readBytesDir, name)
	}

	results, err := walkDir(childSrc, childReadBytes, candidate, pathPred, logger)
	if err != nil {
		return nil, err
	}

	if readBytesDir != "" {
		if cpErr := CopySequenceFile(childSrc, childReadBytes); cpErr != nil {
			logger.Debug("sequence file cache miss (not fatal)",
				slog.String("src", childSrc), slog.String("error", cpErr.Error()))
		}
	}

	return results, nil
}

func appendPath(prefix []string, seg string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = seg

	return out
}
