package hostutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DecodesValidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_id = "pixel-7-contacts"
decsync_dir = "/srv/decsync"
log_level = "debug"
`), 0o644))

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "pixel-7-contacts", cfg.AppID)
	assert.Equal(t, "/srv/decsync", cfg.DecsyncDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "verbose"`), 0o644))

	_, err := Load(path, testLogger())
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"), testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefault_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault("", testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate_AcceptsAllKnownLevels(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := &Config{LogLevel: level}
		assert.NoError(t, Validate(cfg))
	}
}
