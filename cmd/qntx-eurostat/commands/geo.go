package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
)

// GeoCmd resolves place names to geographic codes
var GeoCmd = &cobra.Command{
	Use:   "geo <query...>",
	Short: "Find geographic codes by code or name",
	Long: `Match a code or place name against the GEO codelist. Names match without
regard to case or accents, so "osterreich" finds Österreich.

Examples:
  qntx-eurostat geo bayern
  qntx-eurostat geo DE21`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGeo,
}

func runGeo(cmd *cobra.Command, args []string) error {
	client, err := clientFromConfig()
	if err != nil {
		return err
	}

	codes, err := client.ResolveGeo(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, codes)
	}
	if len(codes) == 0 {
		fmt.Fprintln(out, "No geographic codes match")
		return nil
	}
	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, []string{c.Code, c.Name, string(c.Level)})
	}
	return display.Table(out, []string{"code", "name", "level"}, rows)
}
