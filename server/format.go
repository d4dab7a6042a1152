package server

import (
	"fmt"
	"strings"

	"github.com/teranos/qntx-eurostat/eurostat"
	"github.com/teranos/qntx-eurostat/eurostat/jsonstat"
	"github.com/teranos/qntx-eurostat/eurostat/sdmx"
)

func formatSearch(query string, entries []eurostat.CatalogEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No datasets found for %q", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d dataset(s) for %q:\n", len(entries), query)
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, e.Code, e.Title)
		var meta []string
		if e.Kind != "" {
			meta = append(meta, e.Kind)
		}
		if e.LastUpdate != "" {
			meta = append(meta, "updated "+e.LastUpdate)
		}
		if e.DataStart != "" || e.DataEnd != "" {
			meta = append(meta, e.DataStart+" to "+e.DataEnd)
		}
		if e.Values != "" {
			meta = append(meta, e.Values+" values")
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatStructure(code string, st *sdmx.Structure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", st.Title, code)
	if len(st.Dimensions) == 0 {
		b.WriteString("No dimensions with codelists were found.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d dimension(s):\n", len(st.Dimensions))
	for _, d := range st.Dimensions {
		fmt.Fprintf(&b, "\n%s: %s\n", d.ID, d.DisplayName)
		if d.Time {
			fmt.Fprintf(&b, "  %s\n", sdmx.TimeFilterHint)
			continue
		}
		for _, c := range d.Codes {
			fmt.Fprintf(&b, "  %s = %s\n", c.ID, c.Label)
		}
		if d.Truncated > 0 {
			fmt.Fprintf(&b, "  ... %d more code(s) not shown\n", d.Truncated)
		}
	}
	return b.String()
}

func formatCube(cube *jsonstat.Cube) string {
	var b strings.Builder
	b.WriteString(cube.Title)
	b.WriteByte('\n')
	if cube.Updated != "" {
		fmt.Fprintf(&b, "Updated: %s\n", cube.Updated)
	}

	rows := cube.Rows()
	fmt.Fprintf(&b, "%d of %d cell(s) have values\n\n", len(rows), len(cube.Values))
	if len(rows) == 0 {
		b.WriteString("No values for this selection.\n")
		return b.String()
	}

	b.WriteString(strings.Join(cube.Header(), " | "))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row.Labels, " | "))
		b.WriteString(" | ")
		b.WriteString(jsonstat.FormatValue(row.Value))
		if row.Status != "" {
			b.WriteString(" (" + row.Status + ")")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatGeo(query string, codes []eurostat.GeoCode) string {
	if len(codes) == 0 {
		return fmt.Sprintf("No geographic codes match %q", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d geographic code(s) for %q:\n", len(codes), query)
	for _, c := range codes {
		fmt.Fprintf(&b, "%s: %s [%s]\n", c.Code, c.Name, c.Level)
	}
	return b.String()
}
