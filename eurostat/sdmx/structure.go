package sdmx

import (
	"io"
	"strings"
)

// MaxCodesPerDimension caps the codes reported for one dimension.
const MaxCodesPerDimension = 200

// TimeDimensionID is the filter key the statistics API uses for the time dimension.
const TimeDimensionID = "time"

// TimeFilterHint documents the query parameters that select time periods.
const TimeFilterHint = "open-ended: filter with sinceTimePeriod=YYYY, untilTimePeriod=YYYY or lastTimePeriod=N"

// Code is one permitted value of a dimension.
type Code struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Dimension is a dataset axis. Codes hold at most MaxCodesPerDimension entries;
// Truncated counts the ones left out.
type Dimension struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Codes       []Code `json:"codes"`
	Truncated   int    `json:"truncated,omitempty"`
	Time        bool   `json:"time,omitempty"`
}

// Structure is the extracted metadata of one dataset.
// Dimension order follows the declaration order, with the time dimension last.
type Structure struct {
	Title      string      `json:"title"`
	Dimensions []Dimension `json:"dimensions"`
}

type dimensionDecl struct {
	id       string
	codelist string
	concept  string
}

type codeDecl struct {
	id    string
	names labels
}

type codelistDecl struct {
	id    string
	codes []*codeDecl
}

type structureExtractor struct {
	flowCount, dsdCount int
	flowTitle, dsdTitle labels

	dims []*dimensionDecl
	time *dimensionDecl
	cur  *dimensionDecl

	codelists map[string]*codelistDecl
	order     []*codelistDecl
	curList   *codelistDecl
	curCode   *codeDecl

	concepts   map[string]*labels
	curConcept *labels
}

func newStructureExtractor() *structureExtractor {
	return &structureExtractor{
		codelists: map[string]*codelistDecl{},
		concepts:  map[string]*labels{},
	}
}

func (x *structureExtractor) start(el *Element) {
	switch el.Name {
	case "Dataflow":
		x.flowCount++
	case "DataStructure":
		x.dsdCount++
	case "Dimension":
		if id := el.Attr("id"); id != "" && el.Parent() == "DimensionList" {
			x.cur = &dimensionDecl{id: id}
			x.dims = append(x.dims, x.cur)
		}
	case "TimeDimension":
		if id := el.Attr("id"); id != "" && x.time == nil {
			x.time = &dimensionDecl{id: id}
			x.cur = x.time
		}
	case "Ref":
		if x.cur == nil {
			return
		}
		switch el.Parent() {
		case "Enumeration":
			x.cur.codelist = el.Attr("id")
		case "ConceptIdentity":
			x.cur.concept = el.Attr("id")
		}
	case "Codelist":
		x.curList = nil
		if id := el.Attr("id"); id != "" {
			x.curList = &codelistDecl{id: id}
			if _, dup := x.codelists[id]; !dup {
				x.codelists[id] = x.curList
				x.order = append(x.order, x.curList)
			}
		}
	case "Code":
		if x.curList != nil && el.Parent() == "Codelist" {
			if id := el.Attr("id"); id != "" {
				x.curCode = &codeDecl{id: id}
				x.curList.codes = append(x.curList.codes, x.curCode)
			}
		}
	case "Concept":
		if id := el.Attr("id"); id != "" {
			key := strings.ToLower(id)
			if x.concepts[key] == nil {
				x.concepts[key] = &labels{}
			}
			x.curConcept = x.concepts[key]
		}
	}
}

func (x *structureExtractor) end(el *Element, text string) {
	switch el.Name {
	case "Dimension", "TimeDimension":
		x.cur = nil
	case "Codelist":
		x.curList = nil
	case "Code":
		x.curCode = nil
	case "Concept":
		x.curConcept = nil
	case "Name":
		lang := el.Attr("lang")
		switch el.Parent() {
		case "Code":
			if x.curCode != nil {
				x.curCode.names.add(lang, text)
			}
		case "Concept":
			if x.curConcept != nil {
				x.curConcept.add(lang, text)
			}
		case "Dataflow":
			if x.flowCount == 1 {
				x.flowTitle.add(lang, text)
			}
		case "DataStructure":
			if x.dsdCount == 1 {
				x.dsdTitle.add(lang, text)
			}
		}
	}
}

func (x *structureExtractor) codelist(id string) *codelistDecl {
	if cl, ok := x.codelists[id]; ok {
		return cl
	}
	for _, cl := range x.order {
		if strings.EqualFold(cl.id, id) {
			return cl
		}
	}
	return nil
}

func (x *structureExtractor) displayName(d *dimensionDecl, fallback string) string {
	for _, key := range []string{d.concept, d.id} {
		if key == "" {
			continue
		}
		if l, ok := x.concepts[strings.ToLower(key)]; ok {
			if name := l.best(""); name != "" {
				return name
			}
		}
	}
	return fallback
}

func (x *structureExtractor) result(fallbackTitle string) *Structure {
	title := x.flowTitle.best(x.dsdTitle.best(fallbackTitle))
	s := &Structure{Title: title, Dimensions: []Dimension{}}

	for _, d := range x.dims {
		cl := x.codelist(d.codelist)
		if cl == nil {
			continue
		}
		dim := Dimension{
			ID:          d.id,
			DisplayName: x.displayName(d, d.id),
			Codes:       make([]Code, 0, min(len(cl.codes), MaxCodesPerDimension)),
		}
		for i, c := range cl.codes {
			if i == MaxCodesPerDimension {
				dim.Truncated = len(cl.codes) - MaxCodesPerDimension
				break
			}
			dim.Codes = append(dim.Codes, Code{ID: c.id, Label: c.names.best(c.id)})
		}
		s.Dimensions = append(s.Dimensions, dim)
	}

	if x.time != nil {
		s.Dimensions = append(s.Dimensions, Dimension{
			ID:          TimeDimensionID,
			DisplayName: x.displayName(x.time, "Time"),
			Codes:       []Code{{ID: "sinceTimePeriod|untilTimePeriod|lastTimePeriod", Label: TimeFilterHint}},
			Time:        true,
		})
	}
	return s
}

// ExtractStructure reads a dataflow document fetched with descendant references and
// returns its title and dimensions. fallbackTitle is used when the document names
// neither its dataflow nor its data structure. Malformed markup is not an error:
// whatever was recognized before it is returned.
func ExtractStructure(r io.Reader, fallbackTitle string) (*Structure, error) {
	x := newStructureExtractor()
	err := Walk(r, Visitor{Start: x.start, End: x.end})
	if err != nil && !IsSyntaxError(err) {
		return nil, err
	}
	return x.result(fallbackTitle), nil
}

// ExtractCodelist returns every code of every codelist in the document, in document
// order, labeled in English where available.
func ExtractCodelist(r io.Reader) ([]Code, error) {
	x := newStructureExtractor()
	err := Walk(r, Visitor{Start: x.start, End: x.end})
	if err != nil && !IsSyntaxError(err) {
		return nil, err
	}
	var codes []Code
	for _, cl := range x.order {
		for _, c := range cl.codes {
			codes = append(codes, Code{ID: c.id, Label: c.names.best(c.id)})
		}
	}
	return codes, nil
}
