package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotFetches counts network fetches of the provider snapshot,
	// labeled by outcome (success/error).
	SnapshotFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixr_snapshot_fetches_total",
			Help: "Number of network fetches of the provider snapshot, by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixr_snapshot_cache_hits_total",
		Help: "Number of snapshot requests served from the persistent cache",
	})

	SnapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixr_snapshot_cache_misses_total",
		Help: "Number of snapshot requests that went to the network",
	})

	SnapshotCacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixr_snapshot_cache_write_failures_total",
		Help: "Number of best-effort cache writes that failed",
	})
)

var (
	// GeocodeLookups counts address lookups against the geocoding service,
	// labeled by outcome (found/not_found).
	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixr_geocode_lookups_total",
			Help: "Number of geocoding lookups, by outcome",
		},
		[]string{"outcome"},
	)
)

var (
	DirectoryRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fixr_directory_records",
		Help: "Number of provider records in the directory store",
	})

	RecordsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixr_directory_records_added_total",
		Help: "Number of provider records added through the submission flow",
	})
)

var (
	// OutgoingLatency tracks the duration of outgoing HTTP requests in
	// seconds, labeled by URL (scheme + host + path), method and status.
	OutgoingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fixr_outgoing_request_duration_seconds",
			Help:    "Duration of outgoing HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"url", "method", "status"},
	)
)
