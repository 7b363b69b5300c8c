package commands

import (
	"testing"

	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageError(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	// Test when SilenceUsage is true
	app.cmd.SilenceUsage = true
	assert.False(t, app.UsageError())

	// Test when SilenceUsage is false
	app.cmd.SilenceUsage = false
	assert.True(t, app.UsageError())
}

func TestRootCmd(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	cmd := app.RootCmd()

	assert.NotNil(t, cmd, "Returned root cmd should not be nil")
	assert.Equal(t, constants.CmdName, cmd.Name())
}

func TestQuitCancelsRun(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	app.Quit()
	require.Error(t, app.ctx.Err(), "Quit should cancel the context of the commands")
}

func TestPsqlFlagUsage(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	cmd, _, err := app.RootCmd().Find([]string{"database"})
	require.NoError(t, err, "Setup: database command should exist")

	f := cmd.Flags().Lookup("psql")
	require.NotNil(t, f, "Database command should have a psql flag")
	assert.Empty(t, f.DefValue, "Schema files should go through the database driver by default")
	assert.Contains(t, f.Usage, "statement by statement", "Usage should describe the psql loading mode")
	assert.Contains(t, f.Usage, "one transaction per file", "Usage should describe the driver loading mode")
}
