package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/pathcodec"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show this instance's identity and known peers",
		Long: `Print the resolved decsync directory, own AppId, and every peer AppId
discovered under new-entries — a quick sanity check before running listen
or bootstrap. Log sizes are not reported.`,
		RunE: runStatus,
	}
}

type peerStatus struct {
	AppID string `json:"app_id"`
}

type statusOutput struct {
	DecsyncDir string       `json:"decsync_dir"`
	SyncType   string       `json:"sync_type,omitempty"`
	Collection string       `json:"collection,omitempty"`
	OwnAppID   string       `json:"own_app_id"`
	Peers      []peerStatus `json:"peers"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	dir := collectionDir(cc)

	peers, err := discoverPeerAppIDs(dir, cc.AppID)
	if err != nil {
		return fmt.Errorf("discovering peers: %w", err)
	}

	out := statusOutput{
		DecsyncDir: dir,
		SyncType:   cc.SyncType,
		Collection: cc.Collection,
		OwnAppID:   cc.AppID,
	}

	for _, p := range peers {
		out.Peers = append(out.Peers, peerStatus{AppID: p})
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	printStatusText(cmd, out)

	return nil
}

func printStatusText(cmd *cobra.Command, out statusOutput) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Decsync dir: %s\n", out.DecsyncDir)
	fmt.Fprintf(w, "Own AppId:   %s\n", out.OwnAppID)

	if len(out.Peers) == 0 {
		fmt.Fprintln(w, "No peers discovered.")
		return
	}

	fmt.Fprintf(w, "Peers (%d):\n", len(out.Peers))

	for _, p := range out.Peers {
		fmt.Fprintf(w, "  - %s\n", p.AppID)
	}
}

// discoverPeerAppIDs lists every AppId directory under new-entries/, other
// than ownAppID, decoding names via pathcodec.
func discoverPeerAppIDs(dir, ownAppID string) ([]string, error) {
	root := filepath.Join(dir, "new-entries")

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var peers []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		decoded, err := pathcodec.DecodeSegment(entry.Name())
		if err != nil || decoded == ownAppID {
			continue
		}

		peers = append(peers, decoded)
	}

	return peers, nil
}
