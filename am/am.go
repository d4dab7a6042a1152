// Package am loads qntx-eurostat configuration ("I am") from defaults, TOML files and
// QNTX_EUROSTAT_* environment variables.
package am

import "time"

// Config represents the qntx-eurostat configuration
type Config struct {
	Eurostat EurostatConfig `mapstructure:"eurostat" toml:"eurostat" json:"eurostat" yaml:"eurostat"`
	Server   ServerConfig   `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// EurostatConfig configures upstream access
type EurostatConfig struct {
	CatalogueURL  string `mapstructure:"catalogue_url" toml:"catalogue_url" json:"catalogue_url" yaml:"catalogue_url"`
	SDMXURL       string `mapstructure:"sdmx_url" toml:"sdmx_url" json:"sdmx_url" yaml:"sdmx_url"`
	StatisticsURL string `mapstructure:"statistics_url" toml:"statistics_url" json:"statistics_url" yaml:"statistics_url"`

	// Spacing between outbound requests (default: 350)
	MinRequestIntervalMS int `mapstructure:"min_request_interval_ms" toml:"min_request_interval_ms" json:"min_request_interval_ms" yaml:"min_request_interval_ms"`
	// Table of contents cache lifetime (default: 3600)
	CatalogTTLSeconds int `mapstructure:"catalog_ttl_seconds" toml:"catalog_ttl_seconds" json:"catalog_ttl_seconds" yaml:"catalog_ttl_seconds"`
	// GEO codelist cache lifetime (default: 3600)
	GeoTTLSeconds int `mapstructure:"geo_ttl_seconds" toml:"geo_ttl_seconds" json:"geo_ttl_seconds" yaml:"geo_ttl_seconds"`
	// Per-request HTTP timeout (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`

	// Default label language: en, fr or de
	Language string `mapstructure:"language" toml:"language" json:"language" yaml:"language"`
	// Permit mirrors on private networks
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts" toml:"allow_private_hosts" json:"allow_private_hosts" yaml:"allow_private_hosts"`
}

// MinRequestInterval returns the pacing interval as a duration
func (c EurostatConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMS) * time.Millisecond
}

// CatalogTTL returns the catalog cache lifetime
func (c EurostatConfig) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLSeconds) * time.Second
}

// GeoTTL returns the GEO codelist cache lifetime
func (c EurostatConfig) GeoTTL() time.Duration {
	return time.Duration(c.GeoTTLSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout
func (c EurostatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the MCP server process
type ServerConfig struct {
	MetricsAddr string `mapstructure:"metrics_addr" toml:"metrics_addr" json:"metrics_addr" yaml:"metrics_addr"` // e.g. "127.0.0.1:9464"; empty disables /metrics
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"` // structured JSON logs on stderr
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// Config file locations
const (
	ConfigFileName   = "am.toml"
	SystemConfigPath = "/etc/qntx-eurostat/am.toml"
	UserConfigDir    = ".qntx-eurostat"
	EnvPrefix        = "QNTX_EUROSTAT"
)
