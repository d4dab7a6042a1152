package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
	"github.com/teranos/qntx-eurostat/eurostat"
)

// SearchCmd searches the table of contents
var SearchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search datasets by keywords",
	Long: `Search the Eurostat table of contents. Every keyword found in a dataset's
title or code adds to its score; an exact code match ranks first.

Examples:
  qntx-eurostat search gdp
  qntx-eurostat search unemployment youth --limit 5
  qntx-eurostat search chômage --lang fr`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addLanguageFlag(SearchCmd)
	SearchCmd.Flags().IntP("limit", "n", eurostat.DefaultSearchLimit, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := clientFromConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := client.Search(cmd.Context(), strings.Join(args, " "), lang, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No datasets found")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		period := ""
		if e.DataStart != "" || e.DataEnd != "" {
			period = e.DataStart + "-" + e.DataEnd
		}
		rows = append(rows, []string{e.Code, e.Title, e.Kind, e.LastUpdate, period})
	}
	return display.Table(out, []string{"code", "title", "type", "updated", "period"}, rows)
}
