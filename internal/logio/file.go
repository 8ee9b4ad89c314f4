package logio

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// logFilePermissions matches the teacher's convention for append-only data
// files (owner rw, group/other r).
const logFilePermissions = 0o644

// logDirPermissions matches the teacher's convention for directories
// holding log files (owner rwx, group/other rx).
const logDirPermissions = 0o755

// AppendEntries serializes each entry and appends the resulting lines to
// path, creating path's parent directories as needed. Per §4.4.1 step 2,
// all lines for one call are appended together before any other
// invariant-preserving step runs.
func AppendEntries(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), logDirPermissions); err != nil {
		return fmt.Errorf("logio: creating parent directories for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermissions)
	if err != nil {
		return fmt.Errorf("logio: opening %s for append: %w", path, err)
	}
	defer f.Close()

	for i := range entries {
		line, err := entries[i].MarshalLine()
		if err != nil {
			return fmt.Errorf("logio: encoding entry %d: %w", i, err)
		}

		if _, err := f.Write(line); err != nil {
			return fmt.Errorf("logio: appending to %s: %w", path, err)
		}
	}

	return f.Sync()
}

// Size returns the current byte length of path, or 0 if it does not exist.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("logio: stat %s: %w", path, err)
	}

	return info.Size(), nil
}

// ReadEntriesFrom opens path, skips the first offset bytes, and parses the
// remainder as newline-terminated entry lines. Invalid lines are skipped
// with a warning (§4.3, §7) rather than aborting the read.
func ReadEntriesFrom(path string, offset int64, logger *slog.Logger) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("logio: opening %s: %w", path, err)
	}
	defer f.Close()

	if offset > 0 {
		if _, err := f.Seek(offset, 0); err != nil {
			return nil, fmt.Errorf("logio: seeking %s to %d: %w", path, offset, err)
		}
	}

	var entries []Entry

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		entry, err := ParseLine(line)
		if err != nil {
			logger.Warn("skipping malformed entry line",
				slog.String("path", path), slog.String("error", err.Error()))

			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logio: reading %s: %w", path, err)
	}

	return entries, nil
}

// ReadAllLines parses every line of path into Entry values, skipping
// malformed ones. Used by the stored-entries merge, which needs the
// already-materialized lines rather than an incremental offset.
func ReadAllLines(path string, logger *slog.Logger) ([]Entry, error) {
	return ReadEntriesFrom(path, 0, logger)
}

// FilterFile rewrites path atomically, keeping only lines whose parsed
// Entry satisfies keep. Malformed lines are dropped (logged) rather than
// preserved — a line that cannot be parsed cannot be evaluated by keep,
// and the invariant this function maintains (§3.3: no superseded line for
// a touched key survives) requires every surviving line to be a valid
// Entry. The rewrite goes through a temp file in the same directory,
// renamed over the original, so a crash mid-rewrite never leaves a
// half-written file visible at path (§3.3 invariant 1). A missing path is
// left missing.
func FilterFile(path string, keep func(Entry) bool, logger *slog.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	entries, err := ReadAllLines(path, logger)
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp-%d", filepath.Base(path), os.Getpid()))

	if err := writeSurviving(tmp, entries, keep); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("logio: renaming %s over %s: %w", tmp, path, err)
	}

	return nil
}

func writeSurviving(tmp string, entries []Entry, keep func(Entry) bool) error {
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, logFilePermissions)
	if err != nil {
		return fmt.Errorf("logio: creating %s: %w", tmp, err)
	}
	defer f.Close()

	for _, e := range entries {
		if !keep(e) {
			continue
		}

		line, err := e.MarshalLine()
		if err != nil {
			return fmt.Errorf("logio: re-encoding surviving entry: %w", err)
		}

		if _, err := f.Write(line); err != nil {
			return fmt.Errorf("logio: writing %s: %w", tmp, err)
		}
	}

	return f.Sync()
}
