package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	// IngestTotal tracks processed account updates by account type and outcome.
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_account_updates_total",
			Help: "Account updates processed by account_type and status",
		},
		[]string{"account_type", "status"},
	)

	// IngestDuration tracks the full classify-persist-cache-broadcast latency.
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Time spent processing one account update end to end",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

// Resolver metrics
var (
	// ResolveTotal tracks current-state lookups by answering tier.
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_lookups_total",
			Help: "Current-state lookups by source (cache/database/none)",
		},
		[]string{"source"},
	)

	// CacheWritebackFailures tracks asynchronous cache repopulation failures.
	CacheWritebackFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolve_cache_writeback_failures_total",
			Help: "Failed best-effort cache write-backs after a database hit",
		},
	)
)

// Websocket metrics
var (
	// ConnectedClients tracks currently connected websocket sessions.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently connected websocket sessions",
		},
	)

	// ActiveSubscriptions tracks live (pubkey, session) subscription entries.
	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_subscriptions",
			Help: "Live (pubkey, session) subscription entries",
		},
	)

	// EnvelopesDelivered tracks envelopes enqueued to session mailboxes by source.
	EnvelopesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_envelopes_delivered_total",
			Help: "Envelopes enqueued to session mailboxes by source",
		},
		[]string{"source"},
	)

	// EnvelopesDropped tracks envelopes dropped because a mailbox was full or gone.
	EnvelopesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_envelopes_dropped_total",
			Help: "Envelopes dropped due to a full or missing session mailbox",
		},
	)

	// RequestsDiscarded tracks inbound subscription requests discarded by the rate limiter.
	RequestsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_requests_discarded_total",
			Help: "Inbound subscription requests discarded by the per-session rate limiter",
		},
	)
)

// Redis operation metrics (observed by the client hook)
var (
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerState tracks the Redis breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Pipeline metrics
var (
	// PipelineReconnects tracks datasource reconnect attempts.
	PipelineReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_datasource_reconnects_total",
			Help: "Datasource reconnect attempts",
		},
	)

	// PipelineUpdatesReceived tracks raw updates received from the datasource.
	PipelineUpdatesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_updates_received_total",
			Help: "Decoded updates received from the datasource",
		},
	)
)
