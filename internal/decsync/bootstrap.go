package decsync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// bootstrapCopyConcurrency bounds how many read cursors InitStoredEntries
// seeds at once; the stored-entries and read-bytes tree copies run
// sequentially. Bootstrap runs once per install and touches a peer's entire
// history, so it is worth parallelizing without needing to be tuned.
const bootstrapCopyConcurrency = 8

// InitStoredEntries implements §4.4.6: find the peer whose stored view is
// freshest, and if it isn't us, adopt its stored-entries and read-bytes
// trees wholesale and seed our read-cursors to the end of its new-entries
// logs so that log is not reapplied on top of the inherited view. Intended
// for first run after install/reinstall; the caller typically follows this
// with ExecuteStoredEntries(nil, ...) to replay the inherited view.
func (d *Decsync) InitStoredEntries() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	freshest, ok, err := d.freshestStoredAppID()
	if err != nil {
		return fmt.Errorf("decsync: scanning stored-entries: %w", err)
	}

	if !ok || freshest == d.ownAppID {
		return nil
	}

	storedSrc := d.storedEntriesDir(freshest)
	storedDst := d.storedEntriesDir(d.ownAppID)

	if err := copyTreeOverwrite(storedSrc, storedDst); err != nil {
		return fmt.Errorf("decsync: copying stored-entries from %s: %w", freshest, err)
	}

	readBytesSrc := d.readBytesDirForApp(freshest)
	readBytesDst := d.readBytesDirForApp(d.ownAppID)

	if err := copyTreeOverwrite(readBytesSrc, readBytesDst); err != nil {
		return fmt.Errorf("decsync: copying read-bytes from %s: %w", freshest, err)
	}

	return d.seedReadCursorsToEnd(freshest)
}

// freshestStoredAppID implements §4.4.6 step 1: scan every appId's stored
// view for its most recent entry, tie-breaking toward ownAppID.
func (d *Decsync) freshestStoredAppID() (string, bool, error) {
	root := joinUnder(d.dir, storedEntriesDirName)

	appDirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("listing %s: %w", root, err)
	}

	var (
		bestAppID string
		bestTime  string
		found     bool
	)

	for _, appDir := range appDirs {
		name := appDir.Name()
		if !appDir.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		appID := decodeAppIDOrWarn(name, d.logger)

		leaves, err := logio.ListFilesRecursiveRelative(filepath.Join(root, name), "", nil, d.logger)
		if err != nil {
			return "", false, err
		}

		for _, leaf := range leaves {
			file := filepath.Join(append([]string{root, name}, encodePathSegments(leaf)...)...)

			entries, err := logio.ReadAllLines(file, d.logger)
			if err != nil {
				d.logger.Warn("skipping unreadable stored-entries file during bootstrap scan",
					slog.String("file", file), slog.String("error", err.Error()))

				continue
			}

			for _, e := range entries {
				switch {
				case !found:
					bestAppID, bestTime, found = appID, e.DateTime, true
				case e.DateTime > bestTime:
					bestAppID, bestTime = appID, e.DateTime
				case e.DateTime == bestTime && appID == d.ownAppID:
					bestAppID = appID
				}
			}
		}
	}

	return bestAppID, found, nil
}

// seedReadCursorsToEnd implements §4.4.6 step 3: for every file under the
// freshest peer's new-entries tree, declare it already-read by writing its
// current length into our own read-bytes cursor, so the inherited stored
// view is not redundantly replayed from that peer's raw log.
func (d *Decsync) seedReadCursorsToEnd(peerAppID string) error {
	peerRoot := d.newEntriesDirForApp(peerAppID)

	leaves, err := logio.ListFilesRecursiveRelative(peerRoot, "", nil, d.logger)
	if err != nil {
		return fmt.Errorf("decsync: listing new-entries for %s: %w", peerAppID, err)
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(bootstrapCopyConcurrency)

	for _, leaf := range leaves {
		leaf := leaf

		g.Go(func() error {
			srcFile := d.newEntriesFile(peerAppID, leaf)

			size, err := logio.Size(srcFile)
			if err != nil {
				d.logger.Warn("skipping cursor seed for unreadable file",
					slog.Any("path", leaf), slog.String("error", err.Error()))

				return nil
			}

			dstFile := d.readBytesFile(d.ownAppID, peerAppID, leaf)
			if err := logio.WriteCursor(dstFile, size); err != nil {
				d.logger.Warn("failed to seed read cursor",
					slog.Any("path", leaf), slog.String("error", err.Error()))
			}

			return nil
		})
	}

	return g.Wait()
}

func decodeAppIDOrWarn(encoded string, logger *slog.Logger) string {
	decoded, err := pathcodec.DecodeSegment(encoded)
	if err != nil {
		logger.Warn("undecodable appId directory name, using raw name",
			slog.String("name", encoded), slog.String("error", err.Error()))

		return encoded
	}

	return decoded
}

// dirPermissions and filePermissions mirror logio's unexported file-mode
// conventions for the trees this package writes directly (bootstrap copy is
// the one place decsync touches the filesystem outside the logio package).
const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// copyTreeOverwrite recursively copies srcDir onto dstDir, overwriting
// anything already there. A missing srcDir is not an error — there is
// simply nothing to adopt yet.
func copyTreeOverwrite(srcDir, dstDir string) error {
	if _, err := os.Stat(srcDir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("stat %s: %w", srcDir, err)
	}

	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		dstPath := filepath.Join(dstDir, rel)

		if d.IsDir() {
			return os.MkdirAll(dstPath, dirPermissions)
		}

		return copyFileOverwrite(path, dstPath)
	})
}

func copyFileOverwrite(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), dirPermissions); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dstPath), err)
	}

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying %s to %s: %w", srcPath, dstPath, err)
	}

	return dst.Sync()
}
