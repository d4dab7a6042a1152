package eurostat

import (
	"bytes"
	"context"
	"net/url"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat/jsonstat"
	"github.com/teranos/qntx-eurostat/logger"
)

// Time filter keys understood by the statistics API.
const (
	SinceTimePeriod = "sinceTimePeriod"
	UntilTimePeriod = "untilTimePeriod"
	LastTimePeriod  = "lastTimePeriod"
)

// Output formats.
const (
	FormatJSON = "JSON"
	FormatTSV  = "TSV"
)

// Filters maps a dimension code to the values to keep. Keys are sent upstream as given;
// the API decides what they mean.
type Filters map[string][]string

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// reserved query keys set by the client itself
var reservedParams = map[string]bool{"format": true, "lang": true}

// Query encodes format, language and filters. Filter keys are sorted so the same
// request always yields the same URL; value order is kept.
func (f Filters) Query(format, lang string) string {
	var b strings.Builder
	b.WriteString("format=" + url.QueryEscape(format))
	b.WriteString("&lang=" + url.QueryEscape(strings.ToUpper(lang)))

	keys := make([]string, 0, len(f))
	for k := range f {
		k = strings.TrimSpace(k)
		if k == "" || reservedParams[strings.ToLower(k)] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range f[k] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			b.WriteString("&" + url.QueryEscape(k) + "=" + url.QueryEscape(v))
		}
	}
	return b.String()
}

// Data fetches a filtered cube of one dataset. Cells without a recorded value are nil.
func (c *Client) Data(ctx context.Context, dataset string, filters Filters, lang string) (*jsonstat.Cube, error) {
	code, err := normalizeDataset(dataset)
	if err != nil {
		return nil, err
	}
	lang, err = c.lang(lang)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, c.logger)
	u := c.dataURL(code, filters, FormatJSON, lang)
	op := datasetOperation("data of", code)

	resp, err := c.get(ctx, "data", op, u, "application/json")
	if err != nil {
		if errors.IsNotFoundError(err) {
			err = errors.WithHint(err, "check the dataset code with search_datasets and the filter codes with get_dataset_structure")
		}
		return nil, err
	}

	// A 2xx answer can still carry only a warning, e.g. when filters select nothing.
	if label := payloadLabel(resp.Body); label != "" && !hasDimensions(resp.Body) {
		return nil, errors.NewUpstreamError(op, resp.StatusCode, label, "")
	}

	cube, err := jsonstat.Decode(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", op)
	}
	if cube.Title == "" {
		cube.Title = code
	}

	log.Debugw("Cube decoded",
		logger.FieldDataset, code,
		logger.FieldFilters, filters,
		logger.FieldCells, len(cube.Values),
		logger.FieldCount, cube.Present())
	return cube, nil
}

// Preview fetches only the most recent time period of a dataset.
func (c *Client) Preview(ctx context.Context, dataset, lang string) (*jsonstat.Cube, error) {
	return c.Data(ctx, dataset, Filters{LastTimePeriod: {"1"}}, lang)
}

// DownloadURL builds the tab-separated download link for the same query Data would send.
// Nothing is fetched.
func (c *Client) DownloadURL(dataset string, filters Filters, lang string) (string, error) {
	code, err := normalizeDataset(dataset)
	if err != nil {
		return "", err
	}
	lang, err = c.lang(lang)
	if err != nil {
		return "", err
	}
	return c.dataURL(code, filters, FormatTSV, lang), nil
}

func (c *Client) dataURL(code string, filters Filters, format, lang string) string {
	return c.statisticsURL + "/data/" + url.PathEscape(code) + "?" + filters.Query(format, lang)
}

func hasDimensions(body []byte) bool {
	var probe struct {
		ID []string `json:"id"`
	}
	return json.Unmarshal(bytes.TrimSpace(body), &probe) == nil && len(probe.ID) > 0
}
