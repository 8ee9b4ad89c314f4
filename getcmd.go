package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/decsync"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> <key-json>",
		Short: "Read a key's converged value from stored-entries",
		Long: `Resolve a key's converged value via GetStoredStaticValue (§4.4.7): the
value of the entry with the greatest datetime across every known AppId's
stored-entries view at <path>. Does not touch any cursor.`,
		Args: cobra.ExactArgs(2),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())

	key, err := parseJSONArg(args[1])
	if err != nil {
		return fmt.Errorf("parsing key: %w", err)
	}

	dir := collectionDir(cc)

	value, found, err := decsync.GetStoredStaticValue(dir, splitPath(args[0]), key, cc.Logger)
	if err != nil {
		return fmt.Errorf("reading stored value: %w", err)
	}

	if !found {
		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(map[string]any{"found": false})
		}

		statusf(flagQuiet, "(not found)\n")

		return nil
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(map[string]any{"found": true, "value": value})
	}

	out, err := value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}
