package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// errVerifyMismatch signals that verify found at least one cursor
// inconsistency. main() exits 1 without printing a stack-style error for
// this case specifically, matching the teacher's main.go convention.
var errVerifyMismatch = errors.New("decsync-cli: verify found cursor mismatches")

// cursorMismatch describes one read cursor that claims to have read past
// the end of the peer log it tracks — only possible if the peer log was
// truncated or the cursor file was corrupted, since §4.4.2 never advances
// a cursor past the size observed at read time.
type cursorMismatch struct {
	PeerAppID string `json:"peer_app_id"`
	Path      string `json:"path"`
	Cursor    int64  `json:"cursor"`
	LogSize   int64  `json:"log_size"`
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check this instance's read cursors against peer log sizes",
		Long: `Walk every read cursor this AppId holds on every peer (read-bytes/<own>/...)
and confirm it does not exceed the size of the new-entries log it tracks
(§4.4.2's cursor invariant). A cursor past end-of-file means the peer's log
was truncated or the cursor file corrupted since it was last written.

Exit code 0 if every cursor checks out; exit code 1 if any mismatch is found.`,
		RunE: runVerify,
	}
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	dir := collectionDir(cc)

	mismatches, err := verifyCursors(dir, cc.AppID)
	if err != nil {
		return fmt.Errorf("verifying cursors: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(mismatches); err != nil {
			return err
		}
	} else {
		printVerifyText(cmd.OutOrStdout(), mismatches)
	}

	if len(mismatches) > 0 {
		return errVerifyMismatch
	}

	return nil
}

func printVerifyText(w io.Writer, mismatches []cursorMismatch) {
	if len(mismatches) == 0 {
		fmt.Fprintln(w, "All cursors verified.")
		return
	}

	fmt.Fprintf(w, "Mismatches: %d\n\n", len(mismatches))

	headers := []string{"PEER", "PATH", "CURSOR", "LOG SIZE"}
	rows := make([][]string, len(mismatches))

	for i, m := range mismatches {
		rows[i] = []string{m.PeerAppID, m.Path, fmt.Sprintf("%d", m.Cursor), fmt.Sprintf("%d", m.LogSize)}
	}

	printTable(w, headers, rows)
}

func verifyCursors(dir, ownAppID string) ([]cursorMismatch, error) {
	readBytesRoot := filepath.Join(dir, "read-bytes", pathcodec.EncodeSegment(ownAppID))

	var mismatches []cursorMismatch

	err := filepath.WalkDir(readBytesRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}

			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		// Hidden files (the cached .decsync-sequence copies) are not cursors.
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(readBytesRoot, path)
		if err != nil {
			return err
		}

		parts := splitRelPath(rel)
		if len(parts) < 2 {
			return nil
		}

		peerEnc, leafEnc := parts[0], parts[1:]

		peerAppID, err := pathcodec.DecodeSegment(peerEnc)
		if err != nil {
			return nil
		}

		leafPath := make([]string, len(leafEnc))

		for i, seg := range leafEnc {
			decoded, decErr := pathcodec.DecodeSegment(seg)
			if decErr != nil {
				return nil
			}

			leafPath[i] = decoded
		}

		cursor := logio.ReadCursor(path)

		newFile := filepath.Join(append([]string{dir, "new-entries", peerEnc}, leafEnc...)...)

		size, err := logio.Size(newFile)
		if err != nil {
			return err
		}

		if cursor > size {
			mismatches = append(mismatches, cursorMismatch{
				PeerAppID: peerAppID,
				Path:      filepath.Join(leafPath...),
				Cursor:    cursor,
				LogSize:   size,
			})
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return mismatches, nil
}

func splitRelPath(rel string) []string {
	if rel == "." {
		return nil
	}

	return strings.Split(filepath.ToSlash(rel), "/")
}
