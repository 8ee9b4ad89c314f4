package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/decsync"
)

func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Seed this instance's stored-entries view from the freshest peer",
		Long: `Implements §4.4.6: find the peer AppId with the most recent stored-entries
write, copy its stored-entries and read-bytes trees onto this AppId, then
seed this AppId's read cursors to the end of that peer's new-entries logs
so the copied state is not re-ingested as "new". Cursors for other peers
come only from the copied read-bytes tree.

Safe to run on a fresh AppId before the first listen, so the new instance
starts converged instead of empty.`,
		RunE: runBootstrap,
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	dir := collectionDir(cc)

	eng := decsync.New(dir, cc.AppID, cc.Logger, nil)

	if err := eng.InitStoredEntries(); err != nil {
		return fmt.Errorf("bootstrapping stored entries: %w", err)
	}

	statusf(flagQuiet, "Bootstrap complete.\n")

	return nil
}
