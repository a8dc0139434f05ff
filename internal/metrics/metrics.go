package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Bitacora
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	SubmissionsProcessedTotal prometheus.CounterVec
	FlightsCommittedTotal     prometheus.Counter
	FlightsDeletedTotal       prometheus.Counter
	OCRFailuresTotal          prometheus.Counter
	OverhaulBackfillFlights   prometheus.Counter
	QueueDepth                prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitacora_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitacora_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bitacora_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Business Metrics
		SubmissionsProcessedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitacora_submissions_processed_total",
				Help: "Total submissions processed by terminal outcome",
			},
			[]string{"outcome"},
		),
		FlightsCommittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bitacora_flights_committed_total",
				Help: "Total flights committed to the ledger",
			},
		),
		FlightsDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bitacora_flights_deleted_total",
				Help: "Total flights deleted with full ledger reversal",
			},
		),
		OCRFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bitacora_ocr_failures_total",
				Help: "Total per-image OCR extraction failures captured as confidence 0",
			},
		),
		OverhaulBackfillFlights: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bitacora_overhaul_backfill_flights_total",
				Help: "Total flight rows recomputed by overhaul backfills",
			},
		),
		QueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bitacora_submission_queue_depth",
				Help: "Entries currently waiting in the submission stream",
			},
		),
	}
}
