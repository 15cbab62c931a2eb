package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
	"github.com/ahrav/go-quiver/internal/testutils"
)

var york = domain.Round{Codename: "york", Name: "York"}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next ports.HandicapScorer) ports.HandicapScorer {
			return ScorerFunc(func(ctx context.Context, r domain.Round, h float64, s domain.ScoringSystem) (float64, error) {
				order = append(order, name)
				return next.ScoreForHandicap(ctx, r, h, s)
			})
		}
	}

	s := Chain(testutils.LinearScorer(1000, 10), tag("outer"), tag("inner"))
	got, err := s.ScoreForHandicap(context.Background(), york, 10, domain.SystemAGB)
	require.NoError(t, err)
	assert.Equal(t, 900.0, got)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestCachingMiddleware(t *testing.T) {
	base := testutils.LinearScorer(1000, 10)
	s := Chain(base, CachingMiddleware())
	ctx := context.Background()

	for range 3 {
		got, err := s.ScoreForHandicap(ctx, york, 20, domain.SystemAGB)
		require.NoError(t, err)
		assert.Equal(t, 800.0, got)
	}
	assert.Equal(t, int64(1), base.Calls())

	_, err := s.ScoreForHandicap(ctx, york, 21, domain.SystemAGB)
	require.NoError(t, err)
	_, err = s.ScoreForHandicap(ctx, york, 20, domain.ScoringSystem("AA"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), base.Calls(), "handicap and system are part of the key")
}

func TestCachingMiddleware_DoesNotCacheErrors(t *testing.T) {
	base := testutils.LinearScorer(1000, 10)
	base.Err = errors.New("flaky")
	s := Chain(base, CachingMiddleware())

	_, err := s.ScoreForHandicap(context.Background(), york, 5, domain.SystemAGB)
	require.Error(t, err)

	base.Err = nil
	got, err := s.ScoreForHandicap(context.Background(), york, 5, domain.SystemAGB)
	require.NoError(t, err)
	assert.Equal(t, 950.0, got)
	assert.Equal(t, int64(2), base.Calls())
}

func TestCachingMiddleware_Concurrent(t *testing.T) {
	s := Chain(testutils.LinearScorer(1000, 10), CachingMiddleware())

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.ScoreForHandicap(context.Background(), york, float64(i%4), domain.SystemAGB)
			assert.NoError(t, err)
			assert.Equal(t, 1000-10*float64(i%4), got)
		}()
	}
	wg.Wait()
}

func TestTimeoutMiddleware(t *testing.T) {
	slow := ScorerFunc(func(ctx context.Context, _ domain.Round, _ float64, _ domain.ScoringSystem) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	_, err := Chain(slow, TimeoutMiddleware(10*time.Millisecond)).
		ScoreForHandicap(context.Background(), york, 0, domain.SystemAGB)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := Chain(testutils.LinearScorer(1000, 10), RateLimitMiddleware(rate.Limit(1), 1))

	_, err := s.ScoreForHandicap(context.Background(), york, 0, domain.SystemAGB)
	require.NoError(t, err, "the first call uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.ScoreForHandicap(ctx, york, 1, domain.SystemAGB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	base := testutils.LinearScorer(1000, 10)
	s := Chain(base, TracingMiddleware("scoring-test"))

	got, err := s.ScoreForHandicap(context.Background(), york, 30, domain.SystemAGB)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got)

	base.Err = boom
	_, err = s.ScoreForHandicap(context.Background(), york, 30, domain.SystemAGB)
	assert.ErrorIs(t, err, boom)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := testutils.NewRecordingMetrics()
	base := testutils.LinearScorer(1000, 10)
	s := Chain(base, MetricsMiddleware(metrics))

	_, err := s.ScoreForHandicap(context.Background(), york, 30, domain.SystemAGB)
	require.NoError(t, err)

	base.Err = ports.ErrNoScore
	_, err = s.ScoreForHandicap(context.Background(), york, 30, domain.SystemAGB)
	require.Error(t, err)

	assert.Len(t, metrics.Histogram(ports.MetricScorerLatency), 2)
	labels := metrics.Labels(ports.MetricScorerLatency)
	require.Len(t, labels, 2)
	assert.Equal(t, "success", labels[0]["status"])
	assert.Equal(t, "no_score", labels[1]["status"])
}
