package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sipri", cmd.Use)
	assert.Contains(t, cmd.Short, "pricing calculator")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"product", "add"},
		{"product", "list"},
		{"product", "show"},
		{"product", "edit"},
		{"product", "delete"},
		{"quote"},
		{"config", "show"},
		{"config", "set"},
		{"recalc"},
		{"history"},
		{"export"},
		{"restore"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dataDirFlag := cmd.PersistentFlags().Lookup("data-dir")
	require.NotNil(t, dataDirFlag)
	assert.Equal(t, ".", dataDirFlag.DefValue)

	historyFlag := cmd.PersistentFlags().Lookup("no-history")
	require.NotNil(t, historyFlag)
	assert.Equal(t, "false", historyFlag.DefValue)
}

func TestQuoteCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	quoteCmd, _, err := cmd.Find([]string{"quote"})
	require.NoError(t, err)

	cardFee := quoteCmd.Flags().Lookup("card-fee")
	require.NotNil(t, cardFee)
	assert.Equal(t, "2", cardFee.DefValue)

	profit := quoteCmd.Flags().Lookup("profit")
	require.NotNil(t, profit)
	assert.Equal(t, "30", profit.DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "--data-dir", t.TempDir(), "product", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSettingsFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIPRI_DATA_DIR", dir)
	t.Setenv("SIPRI_FORMAT", "json")

	_, stdout, _, err := execute(t, "", "product", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status":"ok"`)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SIPRI_FORMAT", "json")

	_, stdout, _, err := execute(t, t.TempDir(), "--format", "text", "product", "list")
	require.NoError(t, err)
	assert.Equal(t, "No products registered.\n", stdout)
}
