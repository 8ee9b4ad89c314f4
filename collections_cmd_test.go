package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollections_ListsCreatedCollection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cc := &CLIContext{DecsyncDir: dir, SyncType: "contacts", AppID: "device-a", Logger: cliTestLogger()}

	setCmd := &cobra.Command{}
	setCmd.SetContext(withCLIContext(&CLIContext{
		DecsyncDir: dir, SyncType: "contacts", Collection: "alice", AppID: "device-a", Logger: cliTestLogger(),
	}))
	require.NoError(t, runSet(setCmd, []string{"info", `"name"`, `"Alice"`}))

	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetContext(withCLIContext(cc))
	cmd.SetOut(&buf)

	require.NoError(t, runCollections(cmd, false))
	assert.Equal(t, "alice\n", buf.String())
}

func TestRunCollections_RequiresSyncType(t *testing.T) {
	t.Parallel()

	cc := &CLIContext{DecsyncDir: t.TempDir(), Logger: cliTestLogger()}

	cmd := &cobra.Command{}
	cmd.SetContext(withCLIContext(cc))

	assert.Error(t, runCollections(cmd, false))
}
