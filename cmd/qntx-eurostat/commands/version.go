package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
	"github.com/teranos/qntx-eurostat/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version, build time, commit hash, and platform information, plus the User-Agent sent to Eurostat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(out, info)
		}
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "User-Agent: %s\n", version.UserAgent())
		return nil
	},
}
