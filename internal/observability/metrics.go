// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Run metrics
	WalletsProcessed prometheus.Counter
	WalletsFailed    prometheus.Counter
	RecordsUpserted  prometheus.Counter
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	WalletDuration   prometheus.Histogram

	// Filter metrics
	TradesEvaluated prometheus.Counter
	TradesDropped   *prometheus.CounterVec
	EligibleVolume  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dex_xp_engine"
	}

	return &Metrics{
		WalletsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "wallets_processed_total",
			Help:      "Total number of wallets processed",
		}),
		WalletsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "wallets_failed_total",
			Help:      "Total number of wallets that failed processing",
		}),
		RecordsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "records_upserted_total",
			Help:      "Total number of weekly XP records upserted",
		}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total number of weekly runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Weekly run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		WalletDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "wallet_duration_seconds",
			Help:      "Per-wallet processing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		TradesEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "trades_evaluated_total",
			Help:      "Total number of trades fed into the eligibility pipeline",
		}),
		TradesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "trades_dropped_total",
			Help:      "Total number of trades dropped by filter stage",
		}, []string{"stage"}),
		EligibleVolume: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "eligible_volume_usd_total",
			Help:      "Total eligible volume in USD after all filters",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful weekly run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordWalletProcessed increments the wallets processed counter.
func RecordWalletProcessed(seconds float64) {
	DefaultMetrics.WalletsProcessed.Inc()
	DefaultMetrics.WalletDuration.Observe(seconds)
}

// RecordWalletFailed increments the wallets failed counter.
func RecordWalletFailed() {
	DefaultMetrics.WalletsFailed.Inc()
}

// RecordRun records a completed weekly run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordFilterStats records per-stage drop counts from a filter audit.
func RecordFilterStats(evaluated int, droppedByStage map[string]int, eligibleVolume float64) {
	DefaultMetrics.TradesEvaluated.Add(float64(evaluated))
	for stage, n := range droppedByStage {
		if n > 0 {
			DefaultMetrics.TradesDropped.WithLabelValues(stage).Add(float64(n))
		}
	}
	DefaultMetrics.EligibleVolume.Add(eligibleVolume)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
