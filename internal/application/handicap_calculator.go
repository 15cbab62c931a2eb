package application

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
	"github.com/ahrav/go-quiver/internal/solver"
)

// roundingSlack absorbs solver noise when rounding a handicap up, so a root
// of 42.0000000001 reports 42.
const roundingSlack = 1e-9

// HandicapEstimate is the handicap matching a score on a round.
type HandicapEstimate struct {
	// Handicap is the raw root.
	Handicap float64
	// Rounded is Handicap rounded up, the value an archer is awarded.
	Rounded int
	// Residual is score(Handicap) minus the target score.
	Residual float64
	// Iterations is the solver iteration count.
	Iterations int
	// Converged reports whether the solver met its tolerance.
	Converged bool
}

// HandicapCalculator inverts a HandicapScorer to find the handicap that
// yields a given score.
type HandicapCalculator struct {
	scorer ports.HandicapScorer
	cfg    EngineConfig
	builderDeps
}

// NewHandicapCalculator creates a calculator over scorer.
func NewHandicapCalculator(scorer ports.HandicapScorer, cfg EngineConfig, opts ...Option) (*HandicapCalculator, error) {
	if scorer == nil {
		return nil, fmt.Errorf("handicap scorer cannot be nil: %w", domain.ErrEmptyValue)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HandicapCalculator{scorer: scorer, cfg: cfg, builderDeps: newBuilderDeps(opts)}, nil
}

// HandicapForScore searches the configured bracket for the handicap whose
// score equals score. Scorer errors abort the search. With
// StrictConvergence set, a residual above FTol is returned as a
// *solver.ConvergenceError alongside the estimate.
func (c *HandicapCalculator) HandicapForScore(ctx context.Context, round domain.Round, score float64) (HandicapEstimate, error) {
	start := time.Now()

	var scoreErr error
	f := func(h float64) float64 {
		if scoreErr != nil {
			return 0
		}
		if err := ctx.Err(); err != nil {
			scoreErr = err
			return 0
		}
		s, err := c.scorer.ScoreForHandicap(ctx, round, h, c.cfg.ScoringSystem)
		if err != nil {
			scoreErr = ports.NewScorerError(round.Codename, "ScoreForHandicap", err)
			return 0
		}
		return s - score
	}

	res := solver.Solve(f, c.cfg.HandicapBracket.Min, c.cfg.HandicapBracket.Max, c.cfg.Solver)
	if scoreErr != nil {
		return HandicapEstimate{}, scoreErr
	}

	labels := map[string]string{"converged": strconv.FormatBool(res.Converged)}
	c.metrics.RecordHistogram(ports.MetricSolverIterations, float64(res.Iterations), labels)
	c.metrics.RecordHistogram(ports.MetricSolverResidual, math.Abs(res.Residual), labels)
	c.metrics.RecordLatency(ports.OperationHandicapForScore, time.Since(start), map[string]string{"kind": kindHandicap})

	est := HandicapEstimate{
		Handicap:   res.Root,
		Rounded:    int(math.Ceil(res.Root - roundingSlack)),
		Residual:   res.Residual,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}

	if c.cfg.StrictConvergence {
		if err := res.Check(c.cfg.FTol); err != nil {
			return est, err
		}
	}
	if math.Abs(res.Residual) > c.cfg.FTol {
		c.log.Warn("handicap search left a residual",
			"round", round.Codename,
			"score", score,
			"root", res.Root,
			"residual", res.Residual,
			"iterations", res.Iterations,
		)
	}
	return est, nil
}

// InverseScorerAdapter presents an InverseHandicapScorer as a
// HandicapScorer by solving for the score on [0, MaxScore].
type InverseScorerAdapter struct {
	inverse ports.InverseHandicapScorer
	opts    solver.Options
}

// Verify interface compliance at compile time.
var _ ports.HandicapScorer = (*InverseScorerAdapter)(nil)

// NewInverseScorerAdapter wraps inverse using opts for the search.
func NewInverseScorerAdapter(inverse ports.InverseHandicapScorer, opts solver.Options) *InverseScorerAdapter {
	return &InverseScorerAdapter{inverse: inverse, opts: opts}
}

// ScoreForHandicap returns the score whose handicap equals handicap.
// Handicaps beyond what a zero score or a maximum score map to are clamped
// to those ends.
func (a *InverseScorerAdapter) ScoreForHandicap(
	ctx context.Context,
	round domain.Round,
	handicap float64,
	system domain.ScoringSystem,
) (float64, error) {
	if round.MaxScore <= 0 {
		return 0, fmt.Errorf("round %s has no maximum score: %w", round.Codename, domain.ErrInvalidConfiguration)
	}

	var invErr error
	f := func(s float64) float64 {
		if invErr != nil {
			return 0
		}
		h, err := a.inverse.HandicapForScore(ctx, round, s, system)
		if err != nil {
			invErr = err
			return 0
		}
		return h - handicap
	}

	lo, hi := 0.0, float64(round.MaxScore)
	// Handicap falls as score rises, so f(lo) >= 0 >= f(hi) on a bracket.
	if fLo := f(lo); invErr == nil && fLo <= 0 {
		return lo, nil
	}
	if fHi := f(hi); invErr == nil && fHi >= 0 {
		return hi, nil
	}
	if invErr != nil {
		return 0, ports.NewScorerError(round.Codename, "HandicapForScore", invErr)
	}

	res := solver.Solve(f, lo, hi, a.opts)
	if invErr != nil {
		return 0, ports.NewScorerError(round.Codename, "HandicapForScore", invErr)
	}
	return res.Root, nil
}
