package eurostat

import (
	"bytes"
	"context"
	"net/url"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat/sdmx"
	"github.com/teranos/qntx-eurostat/logger"
)

// Structure fetches the dataflow definition of one dataset and extracts its
// dimensions and codes. Structures are never cached.
func (c *Client) Structure(ctx context.Context, dataset string) (*sdmx.Structure, error) {
	code, err := normalizeDataset(dataset)
	if err != nil {
		return nil, err
	}

	u := c.StructureURL(code)
	resp, err := c.get(ctx, "structure", datasetOperation("structure of", code), u, SDMXStructureAccept)
	if err != nil {
		if errors.IsNotFoundError(err) {
			err = errors.WithHint(err, "check the dataset code with search_datasets")
		}
		return nil, err
	}

	s, err := sdmx.ExtractStructure(bytes.NewReader(resp.Body), code)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read structure of %s", code)
	}
	logger.FromContext(ctx, c.logger).Debugw("Structure extracted",
		logger.FieldDataset, code,
		logger.FieldCount, len(s.Dimensions))
	return s, nil
}

// StructureURL returns the dataflow URL with descendant references for code.
func (c *Client) StructureURL(code string) string {
	q := url.Values{
		"references": {"descendants"},
		"detail":     {"referencepartial"},
	}
	return c.sdmxURL + "/dataflow/ESTAT/" + url.PathEscape(code) + "/1.0?" + q.Encode()
}
