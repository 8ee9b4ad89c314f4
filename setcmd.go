package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/internal/hostutil"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <path> <key-json> <value-json>",
		Short: "Append a key/value entry under this instance's log",
		Long: `Append one timestamped entry (§3.4) to the own-AppId new-entries log at
<path> (slash-separated segments, e.g. "info" or "cards/1"), and merge it
into the local stored-entries view.

<key-json> and <value-json> are JSON literals, e.g. '"name"' and '"Alice"'.`,
		Args: cobra.ExactArgs(3),
		RunE: runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())

	key, err := parseJSONArg(args[1])
	if err != nil {
		return fmt.Errorf("parsing key: %w", err)
	}

	value, err := parseJSONArg(args[2])
	if err != nil {
		return fmt.Errorf("parsing value: %w", err)
	}

	dir := collectionDir(cc)

	eng := decsync.New(dir, cc.AppID, cc.Logger, nil)

	if err := eng.SetEntry(splitPath(args[0]), key, value); err != nil {
		return fmt.Errorf("setting entry: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(map[string]any{"status": "ok"})
	}

	statusf(flagQuiet, "Entry written.\n")

	return nil
}

func parseJSONArg(raw string) (jsonvalue.Value, error) {
	var v jsonvalue.Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return jsonvalue.Value{}, err
	}

	return v, nil
}

func splitPath(raw string) []string {
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return nil
	}

	return strings.Split(raw, "/")
}

// collectionDir computes the on-disk DecsyncDir for the resolved sync-type
// and collection (§6.4).
func collectionDir(cc *CLIContext) string {
	return hostutil.DecsyncSubdir(cc.DecsyncDir, cc.SyncType, cc.Collection)
}
