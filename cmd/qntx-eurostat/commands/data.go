package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
	"github.com/teranos/qntx-eurostat/eurostat/jsonstat"
)

// DataCmd fetches filtered values of a dataset
var DataCmd = &cobra.Command{
	Use:   "data <dataset>",
	Short: "Fetch values of a dataset",
	Long: `Fetch a filtered slice of a dataset and print every cell that has a value.
Cells without a recorded value are left out.

Examples:
  qntx-eurostat data nama_10_gdp -f geo=DE,FR -f unit=CP_MEUR -f na_item=B1GQ -f sinceTimePeriod=2019
  qntx-eurostat data demo_pjan -f geo=AT -f sex=T -f age=TOTAL --plain`,
	Args: cobra.ExactArgs(1),
	RunE: runData,
}

// PreviewCmd fetches the latest period of a dataset
var PreviewCmd = &cobra.Command{
	Use:   "preview <dataset>",
	Short: "Fetch the most recent time period of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	addFilterFlag(DataCmd)
	addLanguageFlag(DataCmd)
	DataCmd.Flags().Bool("plain", false, "Print pipe-separated rows instead of a table")

	addLanguageFlag(PreviewCmd)
	PreviewCmd.Flags().Bool("plain", false, "Print pipe-separated rows instead of a table")
}

func runData(cmd *cobra.Command, args []string) error {
	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	client, err := clientFromConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")

	cube, err := client.Data(cmd.Context(), args[0], filters, lang)
	if err != nil {
		return err
	}
	return renderCube(cmd, cube)
}

func runPreview(cmd *cobra.Command, args []string) error {
	client, err := clientFromConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")

	cube, err := client.Preview(cmd.Context(), args[0], lang)
	if err != nil {
		return err
	}
	return renderCube(cmd, cube)
}

// cubeOutput is the JSON shape of a cube: metadata plus the present rows.
type cubeOutput struct {
	Title      string               `json:"title"`
	Source     string               `json:"source,omitempty"`
	Updated    string               `json:"updated,omitempty"`
	Dimensions []jsonstat.Dimension `json:"dimensions"`
	Cells      int                  `json:"cells"`
	Rows       []jsonstat.Row       `json:"rows"`
}

func renderCube(cmd *cobra.Command, cube *jsonstat.Cube) error {
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, cubeOutput{
			Title:      cube.Title,
			Source:     cube.Source,
			Updated:    cube.Updated,
			Dimensions: cube.Dimensions,
			Cells:      len(cube.Values),
			Rows:       cube.Rows(),
		})
	}

	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		_, err := io.WriteString(out, cube.Table())
		return err
	}

	display.Heading(out, cube.Title)
	rows := cube.Rows()
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		value := jsonstat.FormatValue(r.Value)
		if r.Status != "" {
			value += " " + r.Status
		}
		table = append(table, append(append([]string(nil), r.Labels...), value))
	}
	if err := display.Table(out, cube.Header(), table); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d cell(s) have values\n", len(rows), len(cube.Values))
	return nil
}
