// Package metrics provides Prometheus metrics for upstream traffic and caches
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results
const (
	CacheHit          = "hit"
	CacheMiss         = "miss"
	CacheRefreshError = "refresh_error"
)

var (
	// Upstream request metrics
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eurostat_fetch_total",
			Help: "Total number of requests dispatched to Eurostat APIs",
		},
		[]string{"endpoint", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eurostat_fetch_duration_seconds",
			Help:    "Duration of requests to Eurostat APIs, excluding pacing delay",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	FetchBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eurostat_fetch_bytes_total",
			Help: "Total decompressed response bytes received from Eurostat APIs",
		},
		[]string{"endpoint"},
	)

	// Rate limiting metrics
	PacerDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eurostat_pacer_delay_seconds",
			Help:    "Time callers waited for the minimum request interval",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.35, 0.7, 1.5, 3, 10},
		},
	)

	// Cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eurostat_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"cache", "result"},
	)
)

// RecordFetch records one completed upstream request. status is 0 for transport errors.
func RecordFetch(endpoint string, status int, bytes int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	FetchTotal.WithLabelValues(endpoint, label).Inc()
	FetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if bytes > 0 {
		FetchBytes.WithLabelValues(endpoint).Add(float64(bytes))
	}
}

// RecordPacing records time spent waiting on the request pacer
func RecordPacing(delay time.Duration) {
	PacerDelay.Observe(delay.Seconds())
}

// RecordCacheLookup records a snapshot cache lookup
func RecordCacheLookup(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// Handler exposes the default registry for scraping
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
