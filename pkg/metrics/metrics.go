// Package metrics defines the Prometheus instruments exported by the
// BidKeeper API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates all Prometheus collectors for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Evaluation metrics
	EvaluationRunsTotal      *prometheus.CounterVec
	EvaluationDuration       prometheus.Histogram
	RecommendationsGenerated prometheus.Counter
	RuleDiagnosticsTotal     *prometheus.CounterVec

	// Forecast metrics
	ForecastsGenerated  prometheus.Counter
	BidPredictionsTotal prometheus.Counter
}

// New registers and returns the service collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		EvaluationRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluation_runs_total",
				Help: "Total number of rule evaluation passes",
			},
			[]string{"status"},
		),

		EvaluationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "evaluation_duration_seconds",
				Help:    "Rule evaluation pass duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		RecommendationsGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recommendations_generated_total",
				Help: "Total number of bid recommendations generated",
			},
		),

		RuleDiagnosticsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rule_diagnostics_total",
				Help: "Total number of non-fatal evaluation diagnostics",
			},
			[]string{"reason"},
		),

		ForecastsGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "forecasts_generated_total",
				Help: "Total number of campaign forecasts generated",
			},
		),

		BidPredictionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bid_predictions_total",
				Help: "Total number of bid predictions generated",
			},
		),
	}
}

// RecordHTTPRequest counts one completed request with its duration.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordEvaluationRun counts one evaluation pass with its duration.
func (m *Metrics) RecordEvaluationRun(status string, duration time.Duration, recommendations int) {
	m.EvaluationRunsTotal.WithLabelValues(status).Inc()
	m.EvaluationDuration.Observe(duration.Seconds())
	m.RecommendationsGenerated.Add(float64(recommendations))
}

// RecordDiagnostic counts one non-fatal evaluation diagnostic by reason.
func (m *Metrics) RecordDiagnostic(reason string) {
	m.RuleDiagnosticsTotal.WithLabelValues(reason).Inc()
}
