// Package eurostat is a client for the Eurostat dissemination APIs: dataset catalog
// search, dataset structure, data cubes, download links and geographic code lookup.
//
// All outbound requests go through one paced httpclient.Fetcher. The catalog (per
// language) and the GEO codelist are held in TTL snapshot caches; structure and data
// requests are always live.
package eurostat

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/clock"
	"github.com/teranos/qntx-eurostat/internal/httpclient"
	"github.com/teranos/qntx-eurostat/internal/snapshot"
)

// Default API roots.
const (
	DefaultCatalogueURL  = "https://ec.europa.eu/eurostat/api/dissemination/catalogue"
	DefaultSDMXURL       = "https://ec.europa.eu/eurostat/api/dissemination/sdmx/2.1"
	DefaultStatisticsURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0"

	DefaultCacheTTL = time.Hour
	DefaultLanguage = "en"
)

// SDMXStructureAccept is the media type requested for structure and codelist documents.
const SDMXStructureAccept = "application/vnd.sdmx.structure+xml;version=2.1"

// Languages lists the catalog and label languages Eurostat serves.
var Languages = []string{"en", "fr", "de"}

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	CatalogueURL  string
	SDMXURL       string
	StatisticsURL string
	Language      string // default language when a call passes ""

	CatalogTTL time.Duration
	GeoTTL     time.Duration

	Fetcher *httpclient.Fetcher // nil = NewFetcher with defaults
	Clock   clock.Clock         // drives cache expiry; nil = wall clock
	Logger  *zap.SugaredLogger  // nil = nop logger
}

// Client answers catalog, structure, data and geo queries.
type Client struct {
	catalogueURL  string
	sdmxURL       string
	statisticsURL string
	language      string

	fetcher  *httpclient.Fetcher
	catalogs map[string]*snapshot.Cache[*Catalog]
	geo      *snapshot.Cache[*geoIndex]
	logger   *zap.SugaredLogger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = httpclient.NewFetcher(httpclient.FetcherConfig{Logger: cfg.Logger})
	}
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = DefaultCacheTTL
	}
	if cfg.GeoTTL <= 0 {
		cfg.GeoTTL = DefaultCacheTTL
	}

	language := DefaultLanguage
	if cfg.Language != "" {
		var err error
		if language, err = normalizeLanguage(cfg.Language); err != nil {
			return nil, err
		}
	}

	c := &Client{
		catalogueURL:  baseURL(cfg.CatalogueURL, DefaultCatalogueURL),
		sdmxURL:       baseURL(cfg.SDMXURL, DefaultSDMXURL),
		statisticsURL: baseURL(cfg.StatisticsURL, DefaultStatisticsURL),
		language:      language,
		fetcher:       cfg.Fetcher,
		catalogs:      make(map[string]*snapshot.Cache[*Catalog], len(Languages)),
		logger:        cfg.Logger,
	}
	for _, lang := range Languages {
		c.catalogs[lang] = snapshot.New[*Catalog]("catalog_"+lang, cfg.CatalogTTL, cfg.Clock, cfg.Logger)
	}
	c.geo = snapshot.New[*geoIndex]("geo", cfg.GeoTTL, cfg.Clock, cfg.Logger)
	return c, nil
}

// SetCacheTTLs changes catalog and geo expiry for subsequent lookups.
func (c *Client) SetCacheTTLs(catalog, geo time.Duration) {
	for _, cache := range c.catalogs {
		cache.SetTTL(catalog)
	}
	c.geo.SetTTL(geo)
}

// SetMinRequestInterval retunes the shared request pacer.
func (c *Client) SetMinRequestInterval(d time.Duration) {
	c.fetcher.Pacer().SetInterval(d)
}

// Language returns the default language.
func (c *Client) Language() string {
	return c.language
}

func (c *Client) lang(lang string) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return c.language, nil
	}
	return normalizeLanguage(lang)
}

func normalizeLanguage(lang string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(lang))
	for _, known := range Languages {
		if l == known {
			return l, nil
		}
	}
	return "", errors.WithHint(
		errors.NewInvalidRequestError("unsupported language %q", lang),
		"use one of: en, fr, de")
}

func normalizeDataset(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.NewInvalidRequestError("dataset code is required")
	}
	if strings.ContainsAny(code, "/?#& ") {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("invalid dataset code %q", code),
			"dataset codes look like NAMA_10_GDP; find them with search_datasets")
	}
	return strings.ToUpper(code), nil
}

func baseURL(configured, fallback string) string {
	u := strings.TrimSpace(configured)
	if u == "" {
		u = fallback
	}
	return strings.TrimRight(u, "/")
}
