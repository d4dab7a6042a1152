package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand() *cobra.Command {
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)
	return child
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnvVar, "")

	cmd := newCommand()
	assert.False(t, ShouldOutputJSON(cmd))

	require.NoError(t, cmd.Root().PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(cmd))
}

func TestShouldOutputJSONFromEnv(t *testing.T) {
	t.Setenv(OutputEnvVar, "JSON")
	assert.True(t, ShouldOutputJSON(nil))
	assert.True(t, ShouldOutputJSON(newCommand()))

	t.Setenv(OutputEnvVar, "text")
	assert.False(t, ShouldOutputJSON(nil))
}

func TestExplicitFlagOverridesEnv(t *testing.T) {
	t.Setenv(OutputEnvVar, "json")

	cmd := &cobra.Command{Use: "solo"}
	cmd.Flags().Bool("json", false, "")
	require.NoError(t, cmd.Flags().Set("json", "false"))

	assert.False(t, ShouldOutputJSON(cmd))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"rows": 2}))
	assert.Equal(t, "{\n  \"rows\": 2\n}\n", buf.String())

	compact, err := MarshalCompact([]string{"DE", "FR"})
	require.NoError(t, err)
	assert.Equal(t, `["DE","FR"]`, string(compact))
}

func TestTable(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	err := Table(&buf, []string{"code", "title"}, [][]string{
		{"nama_10_gdp", "GDP and main components"},
		{"short"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "nama_10_gdp")
	assert.Contains(t, out, "GDP and main components")
	assert.Contains(t, out, "short")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 3)
}
