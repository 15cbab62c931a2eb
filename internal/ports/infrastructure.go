// Package ports defines the contracts between the table engine and the
// collaborators it depends on: the round registry, the handicap and
// classification scoring functions, and metrics collection.
// These interfaces keep the engine substitutable and testable.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-quiver/internal/domain"
)

// RoundRegistry provides read-only access to round definitions.
// Implementations must be safe for concurrent use.
type RoundRegistry interface {
	// Round returns the round registered under codename.
	// It returns an error wrapping domain.ErrRoundNotFound when absent.
	Round(codename string) (domain.Round, error)

	// CodenameForName resolves a display name to its codename.
	// Matching is case-insensitive. Unknown names produce a
	// *domain.RoundError carrying the closest known name, if any.
	CodenameForName(name string) (string, error)

	// Rounds returns every registered round in registration order.
	Rounds() []domain.Round

	// Filter returns the registered rounds for which keep returns true,
	// in registration order.
	Filter(keep func(domain.Round) bool) []domain.Round

	// Suggest returns the registered display name closest to name, or ""
	// when nothing is similar enough.
	Suggest(name string) string
}

// HandicapScorer computes the score an archer of a given handicap is
// expected to achieve on a round.
//
// The returned score must be non-increasing as handicap increases over
// [domain.MinHandicap, domain.MaxHandicap]. Implementations may be closed
// form or may invert another function numerically.
type HandicapScorer interface {
	ScoreForHandicap(ctx context.Context, round domain.Round, handicap float64, system domain.ScoringSystem) (float64, error)
}

// InverseHandicapScorer computes the handicap that corresponds to a score.
// It is the shape of collaborators that only expose the inverse relation.
type InverseHandicapScorer interface {
	HandicapForScore(ctx context.Context, round domain.Round, score float64, system domain.ScoringSystem) (float64, error)
}

// ClassificationScorer returns the minimum score for each ranked
// classification tier on a round for an archer selection.
//
// Thresholds are ordered as the tier list is defined, highest tier first,
// and exclude the trailing unclassified tier.
type ClassificationScorer interface {
	Thresholds(ctx context.Context, discipline domain.Discipline, round domain.Round, sel domain.Selection) ([]int, error)
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like table builds and scorer calls.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like solver iterations.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// Metric and operation names recorded by the table engine.
const (
	MetricTablesBuilt      = "tables_built_total"
	MetricScorerCalls      = "scorer_calls_total"
	MetricSuppressedCells  = "suppressed_cells"
	MetricSolverIterations = "solver_iterations"
	MetricSolverResidual   = "solver_residual"
	MetricScorerLatency    = "scorer_latency_seconds"

	OperationHandicapTable       = "handicap_table"
	OperationClassificationTable = "classification_table"
	OperationHandicapForScore    = "handicap_for_score"
)
