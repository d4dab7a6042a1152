package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
)

// URLCmd prints a download link without fetching anything
var URLCmd = &cobra.Command{
	Use:   "url <dataset>",
	Short: "Print the tab-separated download URL for a filtered dataset",
	Long: `Build the download link for the same query "data" would send, in
tab-separated format. Nothing is fetched.

Examples:
  qntx-eurostat url nama_10_gdp -f geo=DE -f unit=CP_MEUR`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	addFilterFlag(URLCmd)
	addLanguageFlag(URLCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	client, err := clientFromConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")

	u, err := client.DownloadURL(args[0], filters, lang)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, map[string]string{"dataset": args[0], "url": u})
	}
	_, err = fmt.Fprintln(out, u)
	return err
}
