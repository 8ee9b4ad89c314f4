package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

func TestRunBootstrap_SeedsFromPeer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	peer := decsync.New(dir, "device-b", cliTestLogger(), nil)
	require.NoError(t, peer.SetEntry([]string{"info"}, jsonvalue.String("name"), jsonvalue.String("Bob")))

	cc := &CLIContext{DecsyncDir: dir, AppID: "device-a", Logger: cliTestLogger()}

	cmd := &cobra.Command{}
	cmd.SetContext(withCLIContext(cc))

	require.NoError(t, runBootstrap(cmd, nil))

	value, found, err := decsync.GetStoredStaticValue(dir, []string{"info"}, jsonvalue.String("name"), cliTestLogger())
	require.NoError(t, err)
	require.True(t, found)

	s, ok := value.AsString()
	require.True(t, ok)
	assert.Equal(t, "Bob", s)
}

func TestRunBootstrap_NoPeersIsNoop(t *testing.T) {
	t.Parallel()

	cc := &CLIContext{DecsyncDir: t.TempDir(), AppID: "device-a", Logger: cliTestLogger()}

	cmd := &cobra.Command{}
	cmd.SetContext(withCLIContext(cc))

	require.NoError(t, runBootstrap(cmd, nil))
}
