// Package testutils provides fake scoring collaborators and fixture rounds
// for exercising the table engine without real handicap formulas.
package testutils

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
)

// FuncScorer implements ports.HandicapScorer with a plain function of
// round and handicap. It counts calls and is safe for concurrent use.
type FuncScorer struct {
	fn    func(round domain.Round, handicap float64) float64
	calls atomic.Int64
	// Err, when set, is returned for every call.
	Err error
}

// NewFuncScorer wraps fn.
func NewFuncScorer(fn func(round domain.Round, handicap float64) float64) *FuncScorer {
	return &FuncScorer{fn: fn}
}

// ScoreForHandicap implements ports.HandicapScorer.
func (s *FuncScorer) ScoreForHandicap(ctx context.Context, round domain.Round, handicap float64, _ domain.ScoringSystem) (float64, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.fn(round, handicap), nil
}

// Calls returns how many times ScoreForHandicap ran.
func (s *FuncScorer) Calls() int64 { return s.calls.Load() }

// LinearScorer scores max(start - slope*h, 0) for every round.
func LinearScorer(start, slope float64) *FuncScorer {
	return NewFuncScorer(func(_ domain.Round, h float64) float64 {
		return math.Max(start-slope*h, 0)
	})
}

// ExponentialScorer scores MaxScore * exp(-h/scale), a smooth strictly
// decreasing curve that flattens at high handicaps.
func ExponentialScorer(scale float64) *FuncScorer {
	return NewFuncScorer(func(r domain.Round, h float64) float64 {
		return float64(r.MaxScore) * math.Exp(-h/scale)
	})
}

// InverseLinear implements ports.InverseHandicapScorer for the curve
// score = MaxScore - slope*h.
type InverseLinear struct {
	Slope float64
}

// HandicapForScore implements ports.InverseHandicapScorer.
func (l InverseLinear) HandicapForScore(_ context.Context, r domain.Round, score float64, _ domain.ScoringSystem) (float64, error) {
	return (float64(r.MaxScore) - score) / l.Slope, nil
}

// StubClassificationScorer implements ports.ClassificationScorer by
// returning fixed thresholds per round codename, falling back to Default.
// Every call is recorded.
type StubClassificationScorer struct {
	// ByRound overrides Default for specific codenames.
	ByRound map[string][]int
	// Default is returned for rounds without an override.
	Default []int
	// Err, when set, is returned for every call.
	Err error

	mu    sync.Mutex
	calls []ClassificationCall
}

// ClassificationCall records one Thresholds invocation.
type ClassificationCall struct {
	Discipline domain.Discipline
	Codename   string
	Selection  domain.Selection
}

// Thresholds implements ports.ClassificationScorer.
func (s *StubClassificationScorer) Thresholds(ctx context.Context, d domain.Discipline, r domain.Round, sel domain.Selection) ([]int, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ClassificationCall{Discipline: d, Codename: r.Codename, Selection: sel})
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if t, ok := s.ByRound[r.Codename]; ok {
		return append([]int(nil), t...), nil
	}
	if s.Default == nil {
		return nil, fmt.Errorf("stub has no thresholds for %s: %w", r.Codename, ports.ErrNoScore)
	}
	return append([]int(nil), s.Default...), nil
}

// Calls returns a copy of the recorded calls.
func (s *StubClassificationScorer) Calls() []ClassificationCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClassificationCall(nil), s.calls...)
}

// Verify interface compliance at compile time.
var (
	_ ports.HandicapScorer        = (*FuncScorer)(nil)
	_ ports.InverseHandicapScorer = InverseLinear{}
	_ ports.ClassificationScorer  = (*StubClassificationScorer)(nil)
)
