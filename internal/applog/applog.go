// Package applog provides the structured-logging setup shared by the CLI
// and the convergence engine's own diagnostic logger, mirroring root.go's
// buildLogger/exitOnError pair.
package applog

import (
	"fmt"
	"log/slog"
	"os"
)

// New builds a *slog.Logger writing text-formatted records to stderr at the
// given level, exactly as buildLogger does. Never a package-level global:
// every constructor in this repository takes a *slog.Logger explicitly.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LevelFromName parses a config-file log_level string ("debug", "info",
// "warn", "error") into a slog.Level, defaulting to Warn on anything else
// (including empty), matching buildLogger's "config-based log level" step.
func LevelFromName(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ResolveLevel reproduces buildLogger's precedence chain: the config file's
// log_level is the baseline, then CLI flags override it in order of
// increasing priority (verbose < debug < quiet), matching root.go's
// mutually-exclusive --verbose/--debug/--quiet flags.
func ResolveLevel(configLevel string, verbose, debug, quiet bool) slog.Level {
	level := LevelFromName(configLevel)

	if verbose {
		level = slog.LevelInfo
	}

	if debug {
		level = slog.LevelDebug
	}

	if quiet {
		level = slog.LevelError
	}

	return level
}

// ExitOnError prints a user-friendly error message to stderr and exits,
// exactly as root.go's exitOnError.
func ExitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
