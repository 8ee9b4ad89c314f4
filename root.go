package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tjanson/decsync-go/internal/applog"
	"github.com/tjanson/decsync-go/internal/hostutil"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd.
var (
	flagConfigPath string
	flagDecsyncDir string
	flagSyncType   string
	flagCollection string
	flagAppID      string
	flagJSON       bool
	flagVerbose    bool
	flagDebug      bool
	flagQuiet      bool
)

// skipConfigAnnotation marks commands that don't need a resolved decsync
// directory (e.g. nothing yet, but kept for parity with commands added
// later that manage config itself).
const skipConfigAnnotation = "skipConfig"

// CLIContext bundles the resolved decsync location and logger. Populated
// once in PersistentPreRunE; avoids redundant resolution in every RunE.
type CLIContext struct {
	DecsyncDir string
	SyncType   string
	Collection string
	AppID      string
	Logger     *slog.Logger
}

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

func cliContextFrom(ctx context.Context) *CLIContext {
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok {
		return nil
	}

	return cc
}

// mustCLIContext extracts the CLIContext or panics with an actionable
// message — a programmer error, since the command tree guarantees
// PersistentPreRunE populates it before any RunE runs.
func mustCLIContext(ctx context.Context) *CLIContext {
	cc := cliContextFrom(ctx)
	if cc == nil {
		panic("BUG: CLIContext not found in context — PersistentPreRunE did not run")
	}

	return cc
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decsync-cli",
		Short:   "DecSync convergence engine CLI",
		Long:    "A command-line client for DecSync's decentralized, file-system-mediated key/value synchronization.",
		Version: version,
		// Silence Cobra's default error/usage printing — handled in main().
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}

			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "decsync-cli config file path")
	cmd.PersistentFlags().StringVar(&flagDecsyncDir, "decsync-dir", "", "DecSync directory root (default: platform default data dir)")
	cmd.PersistentFlags().StringVar(&flagSyncType, "sync-type", "", "sync type (e.g. contacts, calendars, rss)")
	cmd.PersistentFlags().StringVar(&flagCollection, "collection", "", "collection name within the sync type")
	cmd.PersistentFlags().StringVar(&flagAppID, "app-id", "", "this instance's AppId (default: generated and persisted)")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show detailed output")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.MarkFlagsMutuallyExclusive("verbose", "debug", "quiet")

	cmd.AddCommand(newListenCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newCollectionsCmd())
	cmd.AddCommand(newBootstrapCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// loadConfig resolves the effective decsync location and logger from the
// override chain (CLI flags > environment > config file > platform
// default) and stores the result in the command's context.
func loadConfig(cmd *cobra.Command) error {
	logger := applog.New(applog.ResolveLevel("", flagVerbose, flagDebug, flagQuiet))

	cfgPath := flagConfigPath
	if cfgPath == "" {
		cfgPath = hostutil.DefaultConfigPath()
	}

	cfg, err := hostutil.LoadOrDefault(cfgPath, logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	decsyncDir := flagDecsyncDir
	if decsyncDir == "" {
		decsyncDir = envDecsyncDir()
	}

	if decsyncDir == "" {
		decsyncDir = cfg.DecsyncDir
	}

	if decsyncDir == "" {
		decsyncDir = hostutil.DefaultDataDir()
	}

	appID := flagAppID
	if appID == "" {
		appID = cfg.AppID
	}

	if appID == "" {
		appID = hostutil.GetAppId(filepath.Dir(decsyncDir), "", "decsync-cli", nil, logger)
	}

	finalLogger := applog.New(applog.ResolveLevel(cfg.LogLevel, flagVerbose, flagDebug, flagQuiet))

	cc := &CLIContext{
		DecsyncDir: decsyncDir,
		SyncType:   flagSyncType,
		Collection: flagCollection,
		AppID:      appID,
		Logger:     finalLogger,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

	return nil
}
