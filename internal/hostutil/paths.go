// Package hostutil implements the host default-directory and device-identity
// helpers of §6.4-§6.6: the platform default root, the decsync_subdir
// composition rule, the AppId naming convention, and collection listing.
package hostutil

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/tjanson/decsync-go/internal/pathcodec"
)

// Platform identifiers.
const (
	platformLinux  = "linux"
	platformDarwin = "darwin"
)

// appName is the directory name used for this repository's own default
// data root, distinct from any embedding application's decsync_dir.
const appName = "decsync-go"

// DefaultDataDir returns the platform-specific directory under which this
// repository stores its own data (the default decsync_dir when neither
// --decsync-dir nor DECSYNC_DIR is set).
// On Linux, respects XDG_DATA_HOME (defaults to ~/.local/share/decsync-go).
// On macOS, uses ~/Library/Application Support/decsync-go.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxDataDir(home)
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".local", "share", appName)
	}
}

func linuxDataDir(home string) string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigDir returns the platform-specific directory for decsync-cli's
// own optional config file.
// On Linux, respects XDG_CONFIG_HOME (defaults to ~/.config/decsync-go).
// On macOS, uses ~/Library/Application Support/decsync-go.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxConfigDir(home)
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

func linuxConfigDir(home string) string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".config", appName)
}

// DefaultConfigPath returns the full path to decsync-cli's default config
// file, or "" if the home directory could not be determined.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, configFileName)
}

// DecsyncSubdir implements §6.4: base, if non-empty, is used as-is;
// otherwise DefaultDataDir supplies the platform default. syncType is
// always appended URL-encoded; collection, if non-empty, is appended
// URL-encoded as well.
func DecsyncSubdir(base, syncType, collection string) string {
	root := base
	if root == "" {
		root = DefaultDataDir()
	}

	dir := filepath.Join(root, pathcodec.EncodeSegment(syncType))
	if collection != "" {
		dir = filepath.Join(dir, pathcodec.EncodeSegment(collection))
	}

	return dir
}
