package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/am"
	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat"
	"github.com/teranos/qntx-eurostat/internal/httpclient"
	"github.com/teranos/qntx-eurostat/internal/pacer"
	"github.com/teranos/qntx-eurostat/internal/util"
	"github.com/teranos/qntx-eurostat/logger"
	"github.com/teranos/qntx-eurostat/version"
)

// ConfigFile, when set by the root --config flag, replaces the configuration cascade.
var ConfigFile string

// LoadConfig loads and validates the effective configuration.
func LoadConfig() (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if ConfigFile != "" {
		cfg, err = am.LoadFromFile(ConfigFile)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// NewClient builds a Eurostat client from configuration. All requests made through it
// share one pacer.
func NewClient(cfg *am.Config) (*eurostat.Client, error) {
	e := cfg.Eurostat

	httpClient := httpclient.NewSaferClient(e.Timeout(), httpclient.SaferClientOptions{
		BlockPrivateIP: util.Ptr(!e.AllowPrivateHosts),
	})
	fetcher := httpclient.NewFetcher(httpclient.FetcherConfig{
		Client:    httpClient,
		Pacer:     pacer.New(e.MinRequestInterval(), nil),
		UserAgent: version.UserAgent(),
		Logger:    logger.Logger.Named("fetch"),
	})

	return eurostat.New(eurostat.Config{
		CatalogueURL:  e.CatalogueURL,
		SDMXURL:       e.SDMXURL,
		StatisticsURL: e.StatisticsURL,
		Language:      e.Language,
		CatalogTTL:    e.CatalogTTL(),
		GeoTTL:        e.GeoTTL(),
		Fetcher:       fetcher,
		Logger:        logger.Logger.Named("eurostat"),
	})
}

func clientFromConfig() (*eurostat.Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

// ParseFilterFlags turns repeated "key=v1,v2" flags into dimension filters.
// Repeating a key appends its values.
func ParseFilterFlags(flags []string) (eurostat.Filters, error) {
	filters := eurostat.Filters{}
	for _, f := range flags {
		key, values, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewInvalidRequestError("filter %q must look like dimension=value[,value...]", f)
		}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				filters[key] = append(filters[key], v)
			}
		}
	}
	return filters, nil
}

func addFilterFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("filter", "f", nil, "Dimension filter dimension=value[,value...] (repeatable), e.g. geo=DE,FR or sinceTimePeriod=2015")
}

func addLanguageFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("lang", "l", "", "Label language: en, fr or de (default: eurostat.language)")
}

func filtersFromFlags(cmd *cobra.Command) (eurostat.Filters, error) {
	raw, err := cmd.Flags().GetStringArray("filter")
	if err != nil {
		return nil, err
	}
	return ParseFilterFlags(raw)
}
