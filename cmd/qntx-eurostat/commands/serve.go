package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-eurostat/am"
	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat"
	"github.com/teranos/qntx-eurostat/logger"
	"github.com/teranos/qntx-eurostat/metrics"
	"github.com/teranos/qntx-eurostat/server"
)

// ServeCmd runs the MCP server on stdio
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Eurostat tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing:
  search_datasets, get_dataset_structure, get_dataset_data,
  preview_dataset, find_geo_code, get_download_url

Logs go to stderr. When server.metrics_addr is set, Prometheus metrics are
served on http://<metrics_addr>/metrics. Edits to the loaded config files
retune request pacing and cache lifetimes without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	log := logger.Logger.Named("serve")

	if addr := cfg.Server.MetricsAddr; addr != "" {
		stop := startMetrics(addr)
		defer stop()
	}

	if ConfigFile == "" {
		if watcher, err := am.WatchLoaded(); err != nil {
			log.Debugw("Config hot reload disabled", logger.FieldError, err)
		} else {
			watcher.OnReload(func(c *am.Config) error {
				applyConfig(client, c)
				log.Infow("Configuration reloaded",
					"min_request_interval_ms", c.Eurostat.MinRequestIntervalMS,
					"catalog_ttl_seconds", c.Eurostat.CatalogTTLSeconds,
					"geo_ttl_seconds", c.Eurostat.GeoTTLSeconds)
				return nil
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	log.Infow("Serving MCP over stdio", logger.FieldLanguage, client.Language())
	return server.NewMCPServer(client, logger.Logger.Named("mcp")).Serve()
}

// applyConfig pushes the reloadable settings onto a running client.
func applyConfig(client *eurostat.Client, c *am.Config) {
	client.SetMinRequestInterval(c.Eurostat.MinRequestInterval())
	client.SetCacheTTLs(c.Eurostat.CatalogTTL(), c.Eurostat.GeoTTL())
}

func startMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log := logger.Logger.Named("metrics")
	go func() {
		log.Infow("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Metrics server stopped", logger.FieldError, err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
