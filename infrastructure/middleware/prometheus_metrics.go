// Package middleware provides cross-cutting concerns for the table engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-quiver/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks table builds, scorer traffic and solver behaviour.
type PrometheusMetrics struct {
	tablesBuilt      *prometheus.CounterVec
	scorerCalls      *prometheus.CounterVec
	suppressedCells  *prometheus.GaugeVec
	solverIterations *prometheus.HistogramVec
	solverResidual   *prometheus.HistogramVec
	scorerLatency    *prometheus.HistogramVec
	buildLatency     *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers the metrics with reg. Tests pass a
// fresh prometheus.NewRegistry to avoid duplicate registration.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		tablesBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiver_tables_built_total",
				Help: "Total number of tables built, by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		scorerCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiver_scorer_calls_total",
				Help: "Total number of calls made to scoring collaborators.",
			},
			[]string{"kind"},
		),
		suppressedCells: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quiver_suppressed_cells",
				Help: "Suppressed cells in the most recent handicap table.",
			},
			[]string{"mode"},
		),
		solverIterations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_solver_iterations",
				Help:    "Root finder iterations per score inversion.",
				Buckets: prometheus.LinearBuckets(0, 5, 11),
			},
			[]string{"converged"},
		),
		solverResidual: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_solver_residual",
				Help:    "Absolute residual of each score inversion.",
				Buckets: prometheus.ExponentialBuckets(1e-12, 100, 8),
			},
			[]string{"converged"},
		),
		scorerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_scorer_latency_seconds",
				Help:    "Latency of individual handicap scorer calls, by outcome.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
			},
			[]string{"status"},
		),
		buildLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_operation_duration_seconds",
				Help:    "Execution time of table engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "kind"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiver_operations_total",
				Help: "Total number of other operations recorded by the engine.",
			},
			[]string{"operation", "kind"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quiver_system_state",
				Help: "Current values of other engine gauges.",
			},
			[]string{"metric", "kind"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.buildLatency.WithLabelValues(operation, labelOr(labels, "kind", "unknown")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	kind := labelOr(labels, "kind", "unknown")

	switch metric {
	case ports.MetricTablesBuilt:
		pm.tablesBuilt.WithLabelValues(kind, labelOr(labels, "status", "success")).Add(value)
	case ports.MetricScorerCalls:
		pm.scorerCalls.WithLabelValues(kind).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, kind).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricSuppressedCells:
		pm.suppressedCells.WithLabelValues(labelOr(labels, "mode", "unknown")).Set(value)
	default:
		pm.systemGauges.WithLabelValues(metric, labelOr(labels, "kind", "unknown")).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	converged := labelOr(labels, "converged", "unknown")

	switch metric {
	case ports.MetricScorerLatency:
		pm.scorerLatency.WithLabelValues(labelOr(labels, "status", "unknown")).Observe(value)
	case ports.MetricSolverIterations:
		pm.solverIterations.WithLabelValues(converged).Observe(value)
	case ports.MetricSolverResidual:
		pm.solverResidual.WithLabelValues(converged).Observe(value)
	default:
		pm.buildLatency.WithLabelValues(metric, labelOr(labels, "kind", "unknown")).Observe(value)
	}
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return fallback
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (NoopMetrics) RecordCounter(string, float64, map[string]string)       {}
func (NoopMetrics) RecordGauge(string, float64, map[string]string)         {}
func (NoopMetrics) RecordHistogram(string, float64, map[string]string)     {}

// Compile-time verification that the collectors implement MetricsCollector.
var (
	_ ports.MetricsCollector = (*PrometheusMetrics)(nil)
	_ ports.MetricsCollector = NoopMetrics{}
)
