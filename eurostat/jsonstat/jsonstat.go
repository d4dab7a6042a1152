// Package jsonstat decodes JSON-stat 2.0 dataset responses into dense, labeled cubes.
//
// A cube's values are addressed by a mixed-radix linear index over the dimension sizes,
// in the order given by the response's "id" list, with the last dimension varying
// fastest. Sparse responses omit cells that carry no value; those cells decode to nil.
package jsonstat

import (
	"bytes"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/teranos/qntx-eurostat/errors"
)

// MaxCells bounds the dense address space a single response may declare.
const MaxCells = 20_000_000

// Category is one realized member of a dimension.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Dimension is a cube axis with its categories in positional order.
type Dimension struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Categories []Category `json:"categories"`
}

// Size returns the number of categories.
func (d Dimension) Size() int { return len(d.Categories) }

// Cube is a decoded dataset. len(Values) equals the product of the dimension sizes.
type Cube struct {
	Title      string         `json:"title"`
	Source     string         `json:"source,omitempty"`
	Updated    string         `json:"updated,omitempty"`
	Dimensions []Dimension    `json:"dimensions"`
	Values     []*float64     `json:"values"`
	Status     map[int]string `json:"status,omitempty"`
}

// Sizes returns the cardinality of every dimension in order.
func (c *Cube) Sizes() []int {
	sizes := make([]int, len(c.Dimensions))
	for i, d := range c.Dimensions {
		sizes[i] = d.Size()
	}
	return sizes
}

// Present counts cells holding a value.
func (c *Cube) Present() int {
	n := 0
	for _, v := range c.Values {
		if v != nil {
			n++
		}
	}
	return n
}

type rawCube struct {
	Class     string                  `json:"class"`
	Label     string                  `json:"label"`
	Source    string                  `json:"source"`
	Updated   string                  `json:"updated"`
	ID        []string                `json:"id"`
	Size      []int                   `json:"size"`
	Dimension map[string]rawDimension `json:"dimension"`
	Value     json.RawMessage         `json:"value"`
	Status    json.RawMessage         `json:"status"`
}

type rawDimension struct {
	Label    string      `json:"label"`
	Category rawCategory `json:"category"`
}

type rawCategory struct {
	Index json.RawMessage   `json:"index"`
	Label map[string]string `json:"label"`
}

// Decode parses a JSON-stat 2.0 dataset document.
func Decode(data []byte) (*Cube, error) {
	var raw rawCube
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid JSON-stat document"), errors.ErrMalformedCube)
	}
	if raw.Class != "" && raw.Class != "dataset" {
		return nil, malformed("unsupported JSON-stat class %q", raw.Class)
	}
	if len(raw.ID) != len(raw.Size) {
		return nil, malformed("%d dimension ids but %d sizes", len(raw.ID), len(raw.Size))
	}

	total, err := CellCount(raw.Size)
	if err != nil {
		return nil, err
	}

	cube := &Cube{
		Title:      raw.Label,
		Source:     raw.Source,
		Updated:    raw.Updated,
		Dimensions: make([]Dimension, len(raw.ID)),
	}
	for i, id := range raw.ID {
		rd, ok := raw.Dimension[id]
		if !ok {
			return nil, malformed("dimension %q listed in id but not described", id)
		}
		cats, err := categories(id, rd.Category)
		if err != nil {
			return nil, err
		}
		if len(cats) != raw.Size[i] {
			return nil, malformed("dimension %q has %d categories but size %d", id, len(cats), raw.Size[i])
		}
		label := rd.Label
		if label == "" {
			label = id
		}
		cube.Dimensions[i] = Dimension{ID: id, Label: label, Categories: cats}
	}

	values, err := decodeValues(raw.Value, total)
	if err != nil {
		return nil, err
	}
	cube.Values = values

	status, err := decodeStatus(raw.Status, total)
	if err != nil {
		return nil, err
	}
	cube.Status = status

	return cube, nil
}

// CellCount returns the product of sizes, rejecting negative sizes and address spaces
// larger than MaxCells. An empty size list describes a single scalar cell.
func CellCount(sizes []int) (int, error) {
	total := 1
	for _, s := range sizes {
		if s < 0 {
			return 0, malformed("negative dimension size %d", s)
		}
		if s == 0 {
			return 0, nil
		}
		if total > MaxCells/s {
			return 0, malformed("cube declares more than %d cells", MaxCells)
		}
		total *= s
	}
	return total, nil
}

// categories recovers positional order by sorting on the numeric index value.
func categories(id string, rc rawCategory) ([]Category, error) {
	positions := map[string]int{}

	trimmed := bytes.TrimSpace(rc.Index)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		// A single-category dimension may omit index and carry only a label.
		if len(rc.Label) > 1 {
			return nil, malformed("dimension %q has %d labels and no index", id, len(rc.Label))
		}
		for code := range rc.Label {
			positions[code] = 0
		}
	case trimmed[0] == '[':
		var codes []string
		if err := json.Unmarshal(trimmed, &codes); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "dimension %q index", id), errors.ErrMalformedCube)
		}
		for i, code := range codes {
			positions[code] = i
		}
	default:
		if err := json.Unmarshal(trimmed, &positions); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "dimension %q index", id), errors.ErrMalformedCube)
		}
	}

	cats := make([]Category, 0, len(positions))
	for code := range positions {
		label := rc.Label[code]
		if label == "" {
			label = code
		}
		cats = append(cats, Category{Code: code, Label: label})
	}
	sort.Slice(cats, func(i, j int) bool {
		pi, pj := positions[cats[i].Code], positions[cats[j].Code]
		if pi != pj {
			return pi < pj
		}
		return cats[i].Code < cats[j].Code
	})
	return cats, nil
}

func decodeValues(raw json.RawMessage, total int) ([]*float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return make([]*float64, total), nil
	}

	if trimmed[0] == '[' {
		var dense []*float64
		if err := json.Unmarshal(trimmed, &dense); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "value array"), errors.ErrMalformedCube)
		}
		if len(dense) != total {
			return nil, malformed("value array has %d cells, dimensions address %d", len(dense), total)
		}
		return dense, nil
	}

	var keyed map[string]*float64
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "value map"), errors.ErrMalformedCube)
	}
	sparse := make(map[int]float64, len(keyed))
	for k, v := range keyed {
		if v == nil {
			continue
		}
		i, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		sparse[i] = *v
	}
	return Densify(total, sparse), nil
}

// Densify expands a sparse index->value map into a dense slice of length total.
// Positions missing from the map stay nil. Keys outside [0,total) are ignored.
func Densify(total int, sparse map[int]float64) []*float64 {
	dense := make([]*float64, total)
	for i, v := range sparse {
		if i < 0 || i >= total {
			continue
		}
		dense[i] = &v
	}
	return dense
}

func decodeStatus(raw json.RawMessage, total int) (map[int]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	status := map[int]string{}
	switch trimmed[0] {
	case '"':
		// One status for every cell.
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "status"), errors.ErrMalformedCube)
		}
		for i := 0; i < total; i++ {
			status[i] = s
		}
	case '[':
		var list []*string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "status array"), errors.ErrMalformedCube)
		}
		for i, s := range list {
			if s != nil && *s != "" && i < total {
				status[i] = *s
			}
		}
	default:
		var keyed map[string]string
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "status map"), errors.ErrMalformedCube)
		}
		for k, s := range keyed {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= total {
				continue
			}
			status[i] = s
		}
	}
	return status, nil
}

func malformed(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrMalformedCube)
}
