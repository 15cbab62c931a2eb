package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
)

// Middleware wraps a HandicapScorer to add cross-cutting behaviour.
type Middleware func(ports.HandicapScorer) ports.HandicapScorer

// ScorerFunc adapts a function to ports.HandicapScorer.
type ScorerFunc func(ctx context.Context, round domain.Round, handicap float64, system domain.ScoringSystem) (float64, error)

// ScoreForHandicap calls f.
func (f ScorerFunc) ScoreForHandicap(ctx context.Context, round domain.Round, handicap float64, system domain.ScoringSystem) (float64, error) {
	return f(ctx, round, handicap, system)
}

// Chain applies mws to s so that mws[0] is the outermost wrapper.
func Chain(s ports.HandicapScorer, mws ...Middleware) ports.HandicapScorer {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}

// TimeoutMiddleware bounds each scorer call by d.
func TimeoutMiddleware(d time.Duration) Middleware {
	return func(next ports.HandicapScorer) ports.HandicapScorer {
		return ScorerFunc(func(ctx context.Context, round domain.Round, h float64, system domain.ScoringSystem) (float64, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.ScoreForHandicap(ctx, round, h, system)
		})
	}
}

// RateLimitMiddleware paces scorer calls with a token bucket shared by every
// scorer the returned middleware wraps.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next ports.HandicapScorer) ports.HandicapScorer {
		return ScorerFunc(func(ctx context.Context, round domain.Round, h float64, system domain.ScoringSystem) (float64, error) {
			if err := limiter.Wait(ctx); err != nil {
				return 0, fmt.Errorf("rate limit: %w", err)
			}
			return next.ScoreForHandicap(ctx, round, h, system)
		})
	}
}

// TracingMiddleware starts a span per scorer call.
func TracingMiddleware(tracerName string) Middleware {
	tracer := otel.Tracer(tracerName)

	return func(next ports.HandicapScorer) ports.HandicapScorer {
		return ScorerFunc(func(ctx context.Context, round domain.Round, h float64, system domain.ScoringSystem) (float64, error) {
			ctx, span := tracer.Start(ctx, "HandicapScorer.ScoreForHandicap",
				trace.WithAttributes(
					attribute.String("round", round.Codename),
					attribute.Float64("handicap", h),
					attribute.String("system", string(system)),
				),
			)
			defer span.End()

			score, err := next.ScoreForHandicap(ctx, round, h, system)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return 0, err
			}
			span.SetAttributes(attribute.Float64("score", score))
			return score, nil
		})
	}
}

// MetricsMiddleware records the latency of every call, labelled by status.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next ports.HandicapScorer) ports.HandicapScorer {
		return ScorerFunc(func(ctx context.Context, round domain.Round, h float64, system domain.ScoringSystem) (float64, error) {
			start := time.Now()
			score, err := next.ScoreForHandicap(ctx, round, h, system)

			status := "success"
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				status = "timeout"
			case errors.Is(err, ports.ErrNoScore):
				status = "no_score"
			case err != nil:
				status = "error"
			}
			collector.RecordHistogram(ports.MetricScorerLatency, time.Since(start).Seconds(), map[string]string{
				"status": status,
			})
			return score, err
		})
	}
}

type cacheKey struct {
	round    string
	handicap float64
	system   domain.ScoringSystem
}

// CachingMiddleware memoizes successful scores. Errors are never cached.
// Tables for overlapping round sets and repeated inversions on one round
// then reach the wrapped scorer once per distinct point.
func CachingMiddleware() Middleware {
	var (
		mu    sync.RWMutex
		cache = make(map[cacheKey]float64)
	)

	return func(next ports.HandicapScorer) ports.HandicapScorer {
		return ScorerFunc(func(ctx context.Context, round domain.Round, h float64, system domain.ScoringSystem) (float64, error) {
			key := cacheKey{round: round.Codename, handicap: h, system: system}

			mu.RLock()
			score, ok := cache[key]
			mu.RUnlock()
			if ok {
				return score, nil
			}

			score, err := next.ScoreForHandicap(ctx, round, h, system)
			if err != nil {
				return 0, err
			}

			mu.Lock()
			cache[key] = score
			mu.Unlock()
			return score, nil
		})
	}
}
