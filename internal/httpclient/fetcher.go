package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/pacer"
	"github.com/teranos/qntx-eurostat/logger"
	"github.com/teranos/qntx-eurostat/metrics"
	"github.com/teranos/qntx-eurostat/version"
)

// Request describes one outbound GET.
type Request struct {
	URL      string
	Accept   string // optional Accept header
	Endpoint string // metrics/log label, e.g. "catalog", "data"
}

// Response is a fully materialized upstream answer. Non-2xx statuses are returned as
// regular responses; interpreting them is the caller's job.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher issues paced GET requests with a fixed identity and compressed transfer.
// Every component shares one Fetcher so all outbound traffic obeys a single spacing.
type Fetcher struct {
	client    *SaferClient
	pacer     *pacer.Pacer
	userAgent string
	logger    *zap.SugaredLogger
}

// FetcherConfig wires a Fetcher.
type FetcherConfig struct {
	Client    *SaferClient       // nil = NewSaferClient(60s, defaults)
	Pacer     *pacer.Pacer       // nil = pacer.New(pacer.DefaultInterval, nil)
	UserAgent string             // "" = version.UserAgent()
	Logger    *zap.SugaredLogger // nil = nop logger
}

// NewFetcher creates a Fetcher
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Client == nil {
		cfg.Client = NewSaferClient(60*time.Second, SaferClientOptions{})
	}
	if cfg.Pacer == nil {
		cfg.Pacer = pacer.New(pacer.DefaultInterval, nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	return &Fetcher{
		client:    cfg.Client,
		pacer:     cfg.Pacer,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
	}
}

// Pacer exposes the shared pacer so configuration reloads can retune it.
func (f *Fetcher) Pacer() *pacer.Pacer {
	return f.pacer
}

// Fetch waits for a dispatch slot, performs the GET and reads the whole body.
// Transport failures are returned wrapped; the original error stays reachable with errors.Is.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContext(ctx, f.logger)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	// Setting Accept-Encoding ourselves turns off net/http's transparent gzip,
	// so decoding happens in readBody.
	httpReq.Header.Set("Accept-Encoding", "gzip")
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}

	delay, err := f.pacer.Wait(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordPacing(delay)
	if delay > 0 {
		log.Debugw("Request paced",
			logger.FieldEndpoint, req.Endpoint,
			logger.FieldDelayMS, delay.Milliseconds())
	}

	timer := metrics.NewTimer()
	resp, err := f.client.Do(httpReq)
	if err != nil {
		metrics.RecordFetch(req.Endpoint, 0, 0, timer.Duration())
		log.Warnw("Upstream request failed",
			logger.FieldEndpoint, req.Endpoint,
			logger.FieldURL, req.URL,
			logger.FieldError, err)
		return nil, errors.Wrapf(err, "GET %s", req.URL)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		metrics.RecordFetch(req.Endpoint, 0, 0, timer.Duration())
		return nil, errors.Wrapf(err, "failed to read response from %s", req.URL)
	}

	elapsed := timer.Duration()
	metrics.RecordFetch(req.Endpoint, resp.StatusCode, len(body), elapsed)
	log.Debugw("Upstream request completed",
		logger.FieldEndpoint, req.Endpoint,
		logger.FieldURL, req.URL,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldBytes, len(body),
		logger.FieldDurationMS, elapsed.Milliseconds())

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if strings.EqualFold(strings.TrimSpace(resp.Header.Get("Content-Encoding")), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "invalid gzip stream")
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}
