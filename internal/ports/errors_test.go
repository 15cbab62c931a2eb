package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScorerError covers creation, message formatting and unwrapping of
// ScorerError.
func TestScorerError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := NewScorerError("york", "ScoreForHandicap", ErrNoScore)

		assert.Equal(t, "scorer error: operation=ScoreForHandicap, round=york, err=no score available", err.Error())
		assert.Equal(t, "york", err.Round)
		assert.Equal(t, "ScoreForHandicap", err.Operation)
		assert.True(t, errors.Is(err, ErrNoScore))
	})

	t.Run("wrapped by caller", func(t *testing.T) {
		base := errors.New("knots out of order")
		wrapped := fmt.Errorf("column 2: %w", NewScorerError("wa18", "Thresholds", base))

		var scorerErr *ScorerError
		assert.True(t, errors.As(wrapped, &scorerErr))
		assert.Equal(t, "wa18", scorerErr.Round)
		assert.True(t, errors.Is(wrapped, base))
	})
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("solver.max_iterations", ErrConfigNotFound)

	assert.Equal(t, "config error: key=solver.max_iterations, err=configuration not found", err.Error())
	assert.Equal(t, "solver.max_iterations", err.ConfigKey)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestCommonPortErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrNoScore, "no score available"},
		{ErrConfigNotFound, "configuration not found"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error(), "Error message mismatch")
		})
	}
}
