package display

import (
	"io"

	"github.com/pterm/pterm"
)

// Table renders header and rows as a boxed pterm table on w.
// Rows shorter than the header are padded so pterm keeps columns aligned.
func Table(w io.Writer, header []string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	for _, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		WithWriter(w).
		Render()
}

// Heading prints a section title above a table
func Heading(w io.Writer, title string) {
	if title == "" {
		return
	}
	pterm.Fprintln(w, pterm.Bold.Sprint(title))
}
