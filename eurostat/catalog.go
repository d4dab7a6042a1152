package eurostat

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/logger"
)

// DefaultSearchLimit applies when Search is called with a non-positive limit.
const DefaultSearchLimit = 20

// exactCodeBonus lifts an exact dataset-code match above any title-only score.
const exactCodeBonus = 100

// Catalog columns in the table-of-contents text export.
const (
	colTitle      = 0
	colCode       = 1
	colType       = 2
	colLastUpdate = 3
	colDataStart  = 5
	colDataEnd    = 6
	colValues     = 7
)

// CatalogEntry is one dataset, table or folder from the table of contents.
// Optional fields are empty when the catalog leaves them blank.
type CatalogEntry struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Kind       string `json:"type"`
	LastUpdate string `json:"last_update,omitempty"`
	DataStart  string `json:"data_start,omitempty"`
	DataEnd    string `json:"data_end,omitempty"`
	Values     string `json:"values,omitempty"`
}

// Catalog is one immutable snapshot of the table of contents.
type Catalog struct {
	Language string
	Entries  []CatalogEntry
}

// ParseCatalog reads the tab-separated table of contents. The first line is a header;
// blank lines and lines with fewer than two columns are skipped.
func ParseCatalog(r io.Reader) ([]CatalogEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var entries []CatalogEntry
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			header = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			continue
		}
		entries = append(entries, CatalogEntry{
			Title:      column(cols, colTitle),
			Code:       column(cols, colCode),
			Kind:       column(cols, colType),
			LastUpdate: column(cols, colLastUpdate),
			DataStart:  column(cols, colDataStart),
			DataEnd:    column(cols, colDataEnd),
			Values:     column(cols, colValues),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read catalog")
	}
	return entries, nil
}

func column(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	v := strings.TrimSpace(cols[i])
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// Catalog returns the cached table of contents for lang, loading it when absent or
// older than the catalog TTL.
func (c *Client) Catalog(ctx context.Context, lang string) (*Catalog, error) {
	lang, err := c.lang(lang)
	if err != nil {
		return nil, err
	}
	return c.catalogs[lang].Get(ctx, func(ctx context.Context) (*Catalog, error) {
		return c.loadCatalog(ctx, lang)
	})
}

func (c *Client) loadCatalog(ctx context.Context, lang string) (*Catalog, error) {
	u := c.catalogueURL + "/toc/txt?" + url.Values{"lang": {lang}}.Encode()
	resp, err := c.get(ctx, "catalog", "catalog", u, "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset catalog")
	}
	entries, err := ParseCatalog(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx, c.logger).Infow("Catalog loaded",
		logger.FieldLanguage, lang,
		logger.FieldCount, len(entries))
	return &Catalog{Language: lang, Entries: entries}, nil
}

// Search scores catalog entries against a free-text query and returns the best
// matches, highest score first. No match is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query, lang string, limit int) ([]CatalogEntry, error) {
	catalog, err := c.Catalog(ctx, lang)
	if err != nil {
		return nil, err
	}
	results := SearchEntries(catalog.Entries, query, limit)
	logger.FromContext(ctx, c.logger).Debugw("Catalog searched",
		logger.FieldQuery, query,
		logger.FieldCount, len(results))
	return results, nil
}

// SearchEntries ranks entries by the number of query terms found in title or code,
// plus a bonus when the code equals the whole query. Ties keep catalog order.
func SearchEntries(entries []CatalogEntry, query string, limit int) []CatalogEntry {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	terms := strings.Fields(strings.ToLower(query))
	whole := strings.TrimSpace(query)

	type scored struct {
		entry CatalogEntry
		score int
	}
	var hits []scored
	for _, e := range entries {
		haystack := strings.ToLower(e.Title + " " + e.Code)
		score := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if whole != "" && strings.EqualFold(e.Code, whole) {
			score += exactCodeBonus
		}
		if score > 0 {
			hits = append(hits, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]CatalogEntry, len(hits))
	for i, h := range hits {
		results[i] = h.entry
	}
	return results
}
