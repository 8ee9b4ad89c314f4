package hostutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testHome = "/home/testuser"

func TestDefaultDataDir_NonEmpty(t *testing.T) {
	t.Parallel()

	dir := DefaultDataDir()
	assert.NotEmpty(t, dir)
	assert.True(t, strings.Contains(dir, appName))
}

func TestDefaultConfigPath_EndsWithConfigToml(t *testing.T) {
	t.Parallel()

	path := DefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, "config.toml"))
}

func TestLinuxDataDir_XDGOverride(t *testing.T) {
	xdgDir := "/custom/data"

	t.Setenv("XDG_DATA_HOME", xdgDir)
	assert.Equal(t, filepath.Join(xdgDir, appName), linuxDataDir(testHome))
}

func TestLinuxDataDir_DefaultFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	os.Unsetenv("XDG_DATA_HOME")
	assert.Equal(t, filepath.Join(testHome, ".local", "share", appName), linuxDataDir(testHome))
}

func TestLinuxConfigDir_XDGOverride(t *testing.T) {
	xdgDir := "/custom/config"

	t.Setenv("XDG_CONFIG_HOME", xdgDir)
	assert.Equal(t, filepath.Join(xdgDir, appName), linuxConfigDir(testHome))
}

func TestLinuxConfigDir_DefaultFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	os.Unsetenv("XDG_CONFIG_HOME")
	assert.Equal(t, filepath.Join(testHome, ".config", appName), linuxConfigDir(testHome))
}

func TestDecsyncSubdir_UsesGivenBase(t *testing.T) {
	t.Parallel()

	got := DecsyncSubdir("/srv/decsync", "contacts", "")
	assert.Equal(t, filepath.Join("/srv/decsync", "contacts"), got)
}

func TestDecsyncSubdir_AppendsEncodedCollection(t *testing.T) {
	t.Parallel()

	got := DecsyncSubdir("/srv/decsync", "contacts", "my contacts")
	assert.Equal(t, filepath.Join("/srv/decsync", "contacts", "my%20contacts"), got)
}

func TestDecsyncSubdir_FallsBackToDefaultDataDir(t *testing.T) {
	t.Parallel()

	got := DecsyncSubdir("", "rss", "")
	assert.Equal(t, filepath.Join(DefaultDataDir(), "rss"), got)
}
