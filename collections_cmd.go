package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/hostutil"
)

func newCollectionsCmd() *cobra.Command {
	var flagIncludeDeleted bool

	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections for the current sync type",
		Long: `List the URL-decoded names of non-hidden collection directories under
decsync-dir/sync-type (§6.4). By default, collections whose stored
["info"]/"deleted" value is true are omitted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollections(cmd, flagIncludeDeleted)
		},
	}

	cmd.Flags().BoolVar(&flagIncludeDeleted, "include-deleted", false, "include collections marked deleted")

	return cmd
}

func runCollections(cmd *cobra.Command, includeDeleted bool) error {
	cc := mustCLIContext(cmd.Context())

	if cc.SyncType == "" {
		return fmt.Errorf("--sync-type is required")
	}

	names, err := hostutil.ListDecsyncCollections(cc.DecsyncDir, cc.SyncType, !includeDeleted, cc.Logger)
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(names)
	}

	if len(names) == 0 {
		statusf(flagQuiet, "No collections found.\n")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}

	return nil
}
