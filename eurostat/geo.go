package eurostat

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat/sdmx"
	"github.com/teranos/qntx-eurostat/logger"
)

// MaxGeoResults caps ResolveGeo answers.
const MaxGeoResults = 20

// GeoLevel classifies a geographic code by its shape.
type GeoLevel string

const (
	LevelCountry   GeoLevel = "country"
	LevelNUTS1     GeoLevel = "nuts1"
	LevelNUTS2     GeoLevel = "nuts2"
	LevelNUTS3     GeoLevel = "nuts3"
	LevelAggregate GeoLevel = "aggregate"
	LevelOther     GeoLevel = "other"
)

// aggregatePrefixes mark multi-country groupings such as EU27_2020 or EA20.
var aggregatePrefixes = []string{"EU", "EA", "EEA", "EFTA"}

// GeoCode is one entry of the GEO codelist.
type GeoCode struct {
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Level GeoLevel `json:"level"`
}

// LevelOf derives the level from the code alone: two characters is a country, three to
// five are NUTS 1 to 3, longer codes are aggregates when they carry a known prefix.
func LevelOf(code string) GeoLevel {
	switch len(code) {
	case 2:
		return LevelCountry
	case 3:
		return LevelNUTS1
	case 4:
		return LevelNUTS2
	case 5:
		return LevelNUTS3
	}
	upper := strings.ToUpper(code)
	for _, p := range aggregatePrefixes {
		if strings.HasPrefix(upper, p) {
			return LevelAggregate
		}
	}
	return LevelOther
}

// Fold lower-cases s and strips diacritics, so "Österreich" folds to "osterreich".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// geoIndex is the cached codelist with names pre-lowered and pre-folded.
type geoIndex struct {
	codes  []GeoCode
	lower  []string
	folded []string
}

func newGeoIndex(codes []GeoCode) *geoIndex {
	idx := &geoIndex{
		codes:  codes,
		lower:  make([]string, len(codes)),
		folded: make([]string, len(codes)),
	}
	for i, c := range codes {
		idx.lower[i] = strings.ToLower(c.Name)
		idx.folded[i] = Fold(c.Name)
	}
	return idx
}

func (idx *geoIndex) match(query string) []GeoCode {
	q := strings.TrimSpace(query)
	results := []GeoCode{}
	if q == "" {
		return results
	}
	lowerQ := strings.ToLower(q)
	foldedQ := Fold(q)

	for i, c := range idx.codes {
		if strings.EqualFold(c.Code, q) ||
			strings.Contains(idx.lower[i], lowerQ) ||
			strings.Contains(idx.folded[i], foldedQ) {
			results = append(results, c)
			if len(results) == MaxGeoResults {
				break
			}
		}
	}
	return results
}

// GeoCodes returns the cached GEO codelist, loading it when absent or expired.
func (c *Client) GeoCodes(ctx context.Context) ([]GeoCode, error) {
	idx, err := c.geoIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.codes, nil
}

// ResolveGeo finds geographic codes by exact code, name substring or diacritic-free
// name substring. Results keep codelist order; no match is an empty result.
func (c *Client) ResolveGeo(ctx context.Context, query string) ([]GeoCode, error) {
	if strings.TrimSpace(query) == "" {
		return []GeoCode{}, nil
	}
	idx, err := c.geoIndex(ctx)
	if err != nil {
		return nil, err
	}
	results := idx.match(query)
	logger.FromContext(ctx, c.logger).Debugw("Geo resolved",
		logger.FieldQuery, query,
		logger.FieldCount, len(results))
	return results, nil
}

func (c *Client) geoIndex(ctx context.Context) (*geoIndex, error) {
	return c.geo.Get(ctx, c.loadGeo)
}

// GeoCodelistURL returns the location of the GEO codelist.
func (c *Client) GeoCodelistURL() string {
	return c.sdmxURL + "/codelist/ESTAT/GEO/latest"
}

func (c *Client) loadGeo(ctx context.Context) (*geoIndex, error) {
	resp, err := c.get(ctx, "geo", "GEO codelist", c.GeoCodelistURL(), SDMXStructureAccept)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load geographic codes")
	}
	entries, err := sdmx.ExtractCodelist(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read geographic codes")
	}
	codes := make([]GeoCode, len(entries))
	for i, e := range entries {
		codes[i] = GeoCode{Code: e.ID, Name: e.Label, Level: LevelOf(e.ID)}
	}
	logger.FromContext(ctx, c.logger).Infow("Geo codelist loaded", logger.FieldCount, len(codes))
	return newGeoIndex(codes), nil
}
