package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingEngine struct {
	calls []recordedCall
	err   error
}

type recordedCall struct {
	peerAppID string
	path      []string
}

func (e *recordingEngine) ExecuteNewEntriesAt(peerAppID string, path []string, extra any) error {
	e.calls = append(e.calls, recordedCall{peerAppID: peerAppID, path: append([]string{}, path...)})
	return e.err
}

func TestDispatch_IgnoresOwnAppID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNewEntriesFile(t, dir, "A", []string{"info"})

	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "A", testLogger(), nil)

	disp.Dispatch("A/info")

	assert.Empty(t, engine.calls)
}

func TestDispatch_IgnoresHiddenLeafSegment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNewEntriesFile(t, dir, "B", []string{".decsync-sequence"})

	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "A", testLogger(), nil)

	disp.Dispatch("B/.decsync-sequence")

	assert.Empty(t, engine.calls)
}

func TestDispatch_IgnoresEmptyPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "A", testLogger(), nil)

	disp.Dispatch("")
	disp.Dispatch("///")

	assert.Empty(t, engine.calls)
}

func TestDispatch_IgnoresUndecodableSegment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "A", testLogger(), nil)

	disp.Dispatch("B/%zz")

	assert.Empty(t, engine.calls)
}

func TestDispatch_IgnoresNonRegularTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "new-entries", "B", "info"), 0o755))

	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "A", testLogger(), nil)

	disp.Dispatch("B/info")

	assert.Empty(t, engine.calls)
}

func TestDispatch_DeliversDecodedPeerPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNewEntriesFile(t, dir, "peer-b", []string{"cards", "1"})

	engine := &recordingEngine{}
	disp := NewDispatcher(dir, engine, "own-a", testLogger(), nil)

	disp.Dispatch("peer-b/cards/1")

	require.Len(t, engine.calls, 1)
	assert.Equal(t, "peer-b", engine.calls[0].peerAppID)
	assert.Equal(t, []string{"cards", "1"}, engine.calls[0].path)
}

func writeNewEntriesFile(t *testing.T, dir, appID string, path []string) {
	t.Helper()

	parts := append([]string{dir, "new-entries", appID}, path...)
	full := filepath.Join(parts...)

	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(""), 0o644))
}
