package am

import (
	"net/url"
	"strings"

	"github.com/teranos/qntx-eurostat/errors"
)

var supportedLanguages = map[string]bool{"en": true, "fr": true, "de": true}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	e := c.Eurostat

	// Endpoints must be absolute http(s) URLs
	for key, raw := range map[string]string{
		"eurostat.catalogue_url":  e.CatalogueURL,
		"eurostat.sdmx_url":       e.SDMXURL,
		"eurostat.statistics_url": e.StatisticsURL,
	} {
		if err := validateBaseURL(raw); err != nil {
			return errors.Wrapf(err, "%s", key)
		}
	}

	// Zero would disable pacing entirely; Eurostat blocks clients that do that
	if e.MinRequestIntervalMS <= 0 {
		return errors.Newf("eurostat.min_request_interval_ms must be > 0, got %d", e.MinRequestIntervalMS)
	}
	if e.CatalogTTLSeconds <= 0 {
		return errors.Newf("eurostat.catalog_ttl_seconds must be > 0, got %d", e.CatalogTTLSeconds)
	}
	if e.GeoTTLSeconds <= 0 {
		return errors.Newf("eurostat.geo_ttl_seconds must be > 0, got %d", e.GeoTTLSeconds)
	}
	if e.TimeoutSeconds <= 0 {
		return errors.Newf("eurostat.timeout_seconds must be > 0, got %d", e.TimeoutSeconds)
	}

	if !supportedLanguages[strings.ToLower(e.Language)] {
		return errors.WithHint(
			errors.Newf("eurostat.language %q is not supported", e.Language),
			"use en, fr or de")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Newf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.Newf("URL %q has no host", raw)
	}
	return nil
}
