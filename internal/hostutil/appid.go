package hostutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// deviceIDFileName stores a generated per-install fallback identity so
// repeated calls on the same host (and across process restarts) keep
// producing the same AppId instead of a fresh one each time.
const deviceIDFileName = "device-id"

// GetAppId implements §6.5: "<device-model>-<appName>", or with id in
// [0, 100000): "<device-model>-<appName>-<id zero-padded to 5 digits>".
// The caller supplies deviceModel; if it is empty, a random per-install
// identifier is generated and persisted under dataDir so that the AppId
// stays stable across invocations on a host with no natural device-model
// string available. logger receives a warning if persistence fails (the
// random value is still used for this call).
func GetAppId(dataDir, deviceModel, appName string, id *int, logger *slog.Logger) string {
	model := deviceModel
	if model == "" {
		model = persistentFallbackModel(dataDir, logger)
	}

	base := fmt.Sprintf("%s-%s", model, appName)
	if id == nil {
		return base
	}

	return fmt.Sprintf("%s-%05d", base, *id)
}

// persistentFallbackModel reads dataDir/device-id, generating and persisting
// a new random UUID-derived suffix on first use.
func persistentFallbackModel(dataDir string, logger *slog.Logger) string {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	path := filepath.Join(dataDir, deviceIDFileName)

	if data, err := os.ReadFile(path); err == nil {
		if model := strings.TrimSpace(string(data)); model != "" {
			return model
		}
	}

	model := uuid.NewString()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Warn("failed to create data directory for device identity", slog.String("dir", dataDir), slog.String("error", err.Error()))
		return model
	}

	if err := os.WriteFile(path, []byte(model), 0o600); err != nil {
		logger.Warn("failed to persist generated device identity", slog.String("path", path), slog.String("error", err.Error()))
	}

	return model
}
