package am

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultCatalogueURL         = "https://ec.europa.eu/eurostat/api/dissemination/catalogue"
	DefaultSDMXURL              = "https://ec.europa.eu/eurostat/api/dissemination/sdmx/2.1"
	DefaultStatisticsURL        = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0"
	DefaultMinRequestIntervalMS = 350
	DefaultCacheTTLSeconds      = 3600
	DefaultTimeoutSeconds       = 60
	DefaultLanguage             = "en"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Upstream endpoints
	v.SetDefault("eurostat.catalogue_url", DefaultCatalogueURL)
	v.SetDefault("eurostat.sdmx_url", DefaultSDMXURL)
	v.SetDefault("eurostat.statistics_url", DefaultStatisticsURL)

	// Pacing and caching
	v.SetDefault("eurostat.min_request_interval_ms", DefaultMinRequestIntervalMS) // Eurostat throttles faster clients
	v.SetDefault("eurostat.catalog_ttl_seconds", DefaultCacheTTLSeconds)
	v.SetDefault("eurostat.geo_ttl_seconds", DefaultCacheTTLSeconds)
	v.SetDefault("eurostat.timeout_seconds", DefaultTimeoutSeconds)

	v.SetDefault("eurostat.language", DefaultLanguage)
	v.SetDefault("eurostat.allow_private_hosts", false)

	// Server
	v.SetDefault("server.metrics_addr", "")

	// Logging
	v.SetDefault("log.json", false)
}

// BindEnvVars binds every known key to its QNTX_EUROSTAT_* variable, so Unmarshal sees
// environment overrides even for keys no file mentions.
func BindEnvVars(v *viper.Viper) {
	for _, key := range Keys() {
		_ = v.BindEnv(key)
	}
}

// Keys lists every configuration key in dot notation
func Keys() []string {
	return []string{
		"eurostat.catalogue_url",
		"eurostat.sdmx_url",
		"eurostat.statistics_url",
		"eurostat.min_request_interval_ms",
		"eurostat.catalog_ttl_seconds",
		"eurostat.geo_ttl_seconds",
		"eurostat.timeout_seconds",
		"eurostat.language",
		"eurostat.allow_private_hosts",
		"server.metrics_addr",
		"log.json",
	}
}
