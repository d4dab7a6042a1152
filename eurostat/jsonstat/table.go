package jsonstat

import (
	"strconv"
	"strings"
)

// Row is one present cell with its category labels in dimension order.
type Row struct {
	Index  int      `json:"index"`
	Codes  []string `json:"codes"`
	Labels []string `json:"labels"`
	Value  float64  `json:"value"`
	Status string   `json:"status,omitempty"`
}

// Rows returns every present cell in ascending index order. Gaps are skipped.
func (c *Cube) Rows() []Row {
	sizes := c.Sizes()
	rows := make([]Row, 0, c.Present())
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		idx := Unravel(i, sizes)
		row := Row{
			Index:  i,
			Codes:  make([]string, len(idx)),
			Labels: make([]string, len(idx)),
			Value:  *v,
			Status: c.Status[i],
		}
		for d, k := range idx {
			cat := c.Dimensions[d].Categories[k]
			row.Codes[d] = cat.Code
			row.Labels[d] = cat.Label
		}
		rows = append(rows, row)
	}
	return rows
}

// Header returns the dimension ids followed by "value".
func (c *Cube) Header() []string {
	header := make([]string, 0, len(c.Dimensions)+1)
	for _, d := range c.Dimensions {
		header = append(header, d.ID)
	}
	return append(header, "value")
}

// FormatValue renders a number with the shortest exact decimal representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table renders a header line and one "label | ... | value" line per present cell.
func (c *Cube) Table() string {
	var b strings.Builder
	b.WriteString(strings.Join(c.Header(), " | "))
	b.WriteByte('\n')
	for _, row := range c.Rows() {
		b.WriteString(strings.Join(row.Labels, " | "))
		b.WriteString(" | ")
		b.WriteString(FormatValue(row.Value))
		b.WriteByte('\n')
	}
	return b.String()
}
