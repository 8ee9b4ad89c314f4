package hostutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// configFileName is decsync-cli's own config file, independent of any
// per-collection decsync_dir content.
const configFileName = "config.toml"

// Config holds decsync-cli's own optional defaults, read from
// ~/.config/decsync-go/config.toml. Every field may also be supplied via
// environment variable or CLI flag, which take precedence (§A.3).
type Config struct {
	AppID      string `toml:"app_id"`
	DecsyncDir string `toml:"decsync_dir"`
	LogLevel   string `toml:"log_level"`
}

// DefaultConfig returns the zero-value layer of the override chain: an
// empty AppID/DecsyncDir (resolved elsewhere) and an "info" log level.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads and decodes a TOML config file, validates it, and returns the
// result. Unlike the teacher's two-pass drive-section extraction (decsync-go
// has no nested per-drive tables), this is a single decode pass followed by
// validation, matching the "scaled down" shape noted in the domain-stack
// wiring for this dependency.
func Load(path string, logger *slog.Logger) (*Config, error) {
	logger.Debug("loading config file", "path", path)

	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("hostutil: parsing config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("hostutil: config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads path if it exists, otherwise returns DefaultConfig.
// This supports running decsync-cli with no config file at all.
func LoadOrDefault(path string, logger *slog.Logger) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("config file not found, using defaults", "path", path)
		return DefaultConfig(), nil
	}

	return Load(path, logger)
}

// Validate checks cfg for internally inconsistent values. A missing
// AppID/DecsyncDir is not an error here — those are resolved later in the
// override chain and may come from flags or environment instead.
func Validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("hostutil: invalid log_level %q (want debug, info, warn, or error)", cfg.LogLevel)
	}
}
