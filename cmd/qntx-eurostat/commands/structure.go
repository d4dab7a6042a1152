package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/display"
	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat/sdmx"
)

// StructureCmd shows the dimensions of a dataset
var StructureCmd = &cobra.Command{
	Use:   "structure <dataset>",
	Short: "Show the dimensions and codes of a dataset",
	Long: `Fetch the structure of a dataset and list its dimensions. Pass --dimension
to list the codes one dimension accepts.

Examples:
  qntx-eurostat structure nama_10_gdp
  qntx-eurostat structure nama_10_gdp --dimension unit`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func init() {
	StructureCmd.Flags().StringP("dimension", "d", "", "List the codes of this dimension")
}

func runStructure(cmd *cobra.Command, args []string) error {
	client, err := clientFromConfig()
	if err != nil {
		return err
	}

	st, err := client.Structure(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	dimID, _ := cmd.Flags().GetString("dimension")
	if dimID != "" {
		dim, ok := findDimension(st, dimID)
		if !ok {
			return errors.NewInvalidRequestError("dataset %s has no dimension %q", args[0], dimID)
		}
		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(out, dim)
		}
		return renderCodes(cmd, dim)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, st)
	}

	display.Heading(out, st.Title)
	rows := make([][]string, 0, len(st.Dimensions))
	for _, d := range st.Dimensions {
		count := strconv.Itoa(len(d.Codes) + d.Truncated)
		if d.Time {
			count = "open"
		}
		rows = append(rows, []string{d.ID, d.DisplayName, count, sampleCodes(d)})
	}
	return display.Table(out, []string{"dimension", "name", "codes", "examples"}, rows)
}

func findDimension(st *sdmx.Structure, id string) (sdmx.Dimension, bool) {
	for _, d := range st.Dimensions {
		if strings.EqualFold(d.ID, id) {
			return d, true
		}
	}
	return sdmx.Dimension{}, false
}

func renderCodes(cmd *cobra.Command, dim sdmx.Dimension) error {
	out := cmd.OutOrStdout()
	display.Heading(out, dim.ID+": "+dim.DisplayName)
	if dim.Time {
		fmt.Fprintln(out, sdmx.TimeFilterHint)
		return nil
	}
	rows := make([][]string, 0, len(dim.Codes))
	for _, c := range dim.Codes {
		rows = append(rows, []string{c.ID, c.Label})
	}
	if err := display.Table(out, []string{"code", "label"}, rows); err != nil {
		return err
	}
	if dim.Truncated > 0 {
		fmt.Fprintf(out, "%d more code(s) not listed\n", dim.Truncated)
	}
	return nil
}

func sampleCodes(d sdmx.Dimension) string {
	if d.Time {
		return sdmx.TimeFilterHint
	}
	const n = 4
	ids := make([]string, 0, n)
	for i, c := range d.Codes {
		if i == n {
			ids = append(ids, "...")
			break
		}
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}
