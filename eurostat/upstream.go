package eurostat

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/httpclient"
)

// maxErrorBody bounds the raw response text embedded in an error.
const maxErrorBody = 500

type upstreamMessage struct {
	Status json.RawMessage `json:"status"`
	ID     json.RawMessage `json:"id"`
	Label  string          `json:"label"`
}

// upstreamPayload matches the error and warning envelopes the statistics API returns,
// in both the single-object and list forms.
type upstreamPayload struct {
	Error   json.RawMessage `json:"error"`
	Warning json.RawMessage `json:"warning"`
}

// payloadLabel extracts the human-readable label of an error or warning payload.
func payloadLabel(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var p upstreamPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return ""
	}
	if label := messageLabel(p.Error); label != "" {
		return label
	}
	return messageLabel(p.Warning)
}

func messageLabel(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '{':
		var m upstreamMessage
		if json.Unmarshal(trimmed, &m) == nil {
			return m.Label
		}
	case '[':
		var list []upstreamMessage
		if json.Unmarshal(trimmed, &list) == nil {
			for _, m := range list {
				if m.Label != "" {
					return m.Label
				}
			}
		}
	}
	return ""
}

// upstreamError converts a non-2xx response into an error carrying status and label.
func upstreamError(operation string, resp *httpclient.Response) error {
	label := payloadLabel(resp.Body)
	body := ""
	if label == "" {
		body = errors.Truncate(string(bytes.TrimSpace(resp.Body)), maxErrorBody)
	}
	return errors.NewUpstreamError(operation, resp.StatusCode, label, body)
}

// get fetches url and turns non-2xx responses into errors.
func (c *Client) get(ctx context.Context, endpoint, operation, url, accept string) (*httpclient.Response, error) {
	resp, err := c.fetcher.Fetch(ctx, httpclient.Request{URL: url, Accept: accept, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, upstreamError(operation, resp)
	}
	return resp, nil
}

func datasetOperation(verb, code string) string {
	return fmt.Sprintf("%s %s", verb, code)
}
