package hostutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanson/decsync-go/internal/logio"
	"github.com/tjanson/decsync-go/internal/pathcodec"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

func writeStoredInfo(t *testing.T, collectionDir, appID string, deleted bool) {
	t.Helper()

	file := filepath.Join(collectionDir, "stored-entries", pathcodec.EncodeSegment(appID), pathcodec.EncodeSegment("info"))
	require.NoError(t, logio.AppendEntries(file, []logio.Entry{
		{DateTime: logio.NowDateTime(), Key: jsonvalue.String("deleted"), Value: jsonvalue.Bool(deleted)},
	}))
}

func TestListDecsyncCollections_ListsNonHiddenDirs(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	syncTypeDir := DecsyncSubdir(base, "contacts", "")

	require.NoError(t, writeEmptyDir(filepath.Join(syncTypeDir, "alice")))
	require.NoError(t, writeEmptyDir(filepath.Join(syncTypeDir, ".hidden")))

	got, err := ListDecsyncCollections(base, "contacts", false, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got)
}

func TestListDecsyncCollections_MissingSyncTypeIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := ListDecsyncCollections(t.TempDir(), "contacts", false, testLogger())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListDecsyncCollections_SkipsDeletedWhenRequested(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	aliceDir := DecsyncSubdir(base, "contacts", "alice")
	bobDir := DecsyncSubdir(base, "contacts", "bob")

	writeStoredInfo(t, aliceDir, "device-a", true)
	writeStoredInfo(t, bobDir, "device-a", false)

	got, err := ListDecsyncCollections(base, "contacts", true, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, got)
}

func TestListDecsyncCollections_IncludesDeletedWhenNotIgnoring(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	aliceDir := DecsyncSubdir(base, "contacts", "alice")
	writeStoredInfo(t, aliceDir, "device-a", true)

	got, err := ListDecsyncCollections(base, "contacts", false, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got)
}

func writeEmptyDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
