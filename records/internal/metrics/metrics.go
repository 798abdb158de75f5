package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialdesk_records_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dialdesk_records_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Auth metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialdesk_records_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	PermissionDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialdesk_records_permission_denials_total",
			Help: "Total number of requests rejected by permission checks",
		},
		[]string{"path"},
	)

	TokenCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialdesk_records_token_cache_hits_total",
			Help: "Total number of token validations served from cache",
		},
	)

	TokenCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialdesk_records_token_cache_misses_total",
			Help: "Total number of token validations that missed the cache",
		},
	)

	// History feed metrics
	HistoryFanoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dialdesk_records_history_fanout_duration_seconds",
			Help:    "Duration of per-source history queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	HistoryItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dialdesk_records_history_items_returned",
			Help:    "Number of items returned per history request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	HistoryUnknownKinds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialdesk_records_history_unknown_kinds_total",
			Help: "Total number of history items dropped for an unknown kind",
		},
	)

	HistoryDuplicateSessions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dialdesk_records_history_duplicate_sessions_total",
			Help: "Total number of session rows dropped by de-duplication",
		},
	)

	// Ingest metrics
	RecordsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialdesk_records_ingested_total",
			Help: "Total number of records ingested",
		},
		[]string{"kind"},
	)
)
