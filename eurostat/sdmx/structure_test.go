package sdmx

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExtractStructure(t *testing.T) {
	s, err := ExtractStructure(openFixture(t, "nama_10_gdp.xml"), "NAMA_10_GDP")
	require.NoError(t, err)

	assert.Equal(t, "GDP and main components (output, expenditure and income)", s.Title)

	// na_item references a codelist the document does not contain.
	ids := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"freq", "unit", "geo", "time"}, ids)

	freq := s.Dimensions[0]
	assert.Equal(t, "Time frequency", freq.DisplayName)
	assert.Equal(t, []Code{{ID: "A", Label: "Annual"}}, freq.Codes)

	unit := s.Dimensions[1]
	assert.Equal(t, []Code{
		{ID: "CP_MEUR", Label: "Current prices, million euro"},
		{ID: "PC_GDP", Label: "Pourcentage du PIB"},
		{ID: "CLV_I10", Label: "CLV_I10"},
	}, unit.Codes)

	geo := s.Dimensions[2]
	assert.Equal(t, "Geopolitical entity (reporting)", geo.DisplayName, "display name via concept ref")
	assert.Equal(t, "Austria & more", geo.Codes[2].Label)

	timeDim := s.Dimensions[3]
	assert.True(t, timeDim.Time)
	assert.Equal(t, "Time period", timeDim.DisplayName)
	require.Len(t, timeDim.Codes, 1)
	assert.Contains(t, timeDim.Codes[0].Label, "sinceTimePeriod")
	assert.Contains(t, timeDim.Codes[0].Label, "lastTimePeriod")
}

func TestExtractStructureTitleFallbacks(t *testing.T) {
	dsdOnly := `<Structure><DataStructure id="X"><Name xml:lang="en">DSD title</Name></DataStructure></Structure>`
	s, err := ExtractStructure(strings.NewReader(dsdOnly), "X")
	require.NoError(t, err)
	assert.Equal(t, "DSD title", s.Title)

	s, err = ExtractStructure(strings.NewReader(`<Structure/>`), "TPS00001")
	require.NoError(t, err)
	assert.Equal(t, "TPS00001", s.Title)
	assert.Empty(t, s.Dimensions, "no codelists is an empty list, not an error")
	assert.NotNil(t, s.Dimensions)
}

func TestExtractStructureCapsCodes(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<Structure><Codelist id="CL_BIG">`)
	for i := 0; i < MaxCodesPerDimension+25; i++ {
		fmt.Fprintf(&b, `<Code id="C%03d"><Name xml:lang="en">Code %d</Name></Code>`, i, i)
	}
	b.WriteString(`</Codelist><DimensionList><Dimension id="big"><LocalRepresentation><Enumeration><Ref id="CL_BIG"/></Enumeration></LocalRepresentation></Dimension></DimensionList></Structure>`)

	s, err := ExtractStructure(strings.NewReader(b.String()), "BIG")
	require.NoError(t, err)
	require.Len(t, s.Dimensions, 1)
	assert.Len(t, s.Dimensions[0].Codes, MaxCodesPerDimension)
	assert.Equal(t, 25, s.Dimensions[0].Truncated)
	assert.Equal(t, "big", s.Dimensions[0].DisplayName, "no concept falls back to id")
}

func TestExtractStructureToleratesBrokenTail(t *testing.T) {
	doc := `<Structure>
	  <Codelist id="GEO"><Code id="DE"><Name xml:lang="en">Germany</Name></Code></Codelist>
	  <DimensionList><Dimension id="geo"><Enumeration><Ref id="geo"/></Enumeration></Dimension></DimensionList>
	  <Codelist id="BROKEN"><Code id="X" <<<`

	s, err := ExtractStructure(strings.NewReader(doc), "T")
	require.NoError(t, err)
	require.Len(t, s.Dimensions, 1)
	assert.Equal(t, []Code{{ID: "DE", Label: "Germany"}}, s.Dimensions[0].Codes, "codelist id matched case-insensitively")
}

func TestExtractCodelist(t *testing.T) {
	doc := `<?xml version="1.0" encoding="ISO-8859-1"?>
	<m:Structure xmlns:m="m" xmlns:s="s" xmlns:c="c"><m:Structures><s:Codelists>
	  <s:Codelist id="GEO">
	    <c:Name xml:lang="en">Geopolitical entity</c:Name>
	    <s:Code id="AT"><c:Name xml:lang="de">` + "\xd6sterreich" + `</c:Name></s:Code>
	    <s:Code id="DE"><c:Name xml:lang="en">Germany</c:Name></s:Code>
	  </s:Codelist>
	</s:Codelists></m:Structures></m:Structure>`

	codes, err := ExtractCodelist(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Code{
		{ID: "AT", Label: "Österreich"},
		{ID: "DE", Label: "Germany"},
	}, codes)
}

func TestWalkPathAndText(t *testing.T) {
	var seen []string
	err := Walk(strings.NewReader(`<a:root xmlns:a="x"><a:child k="v"> fish &amp; chips </a:child></a:root>`), Visitor{
		End: func(el *Element, text string) {
			seen = append(seen, fmt.Sprintf("%s|%s|%s|%s", el.Parent(), el.Name, text, el.Attr("k")))
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"root|child|fish & chips|v",
		"|root||",
	}, seen)
}

func TestWalkKeepsChildrenOfHTMLNamedElements(t *testing.T) {
	doc := `<Structure><Link id="l"><Name>inside link</Name></Link><Col><Base>b</Base></Col></Structure>`

	parents := map[string]string{}
	err := Walk(strings.NewReader(doc), Visitor{
		End: func(el *Element, text string) {
			parents[el.Name] = el.Parent()
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Link", parents["Name"])
	assert.Equal(t, "Col", parents["Base"])
	assert.Equal(t, "Structure", parents["Link"])
}
