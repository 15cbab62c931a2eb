package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundError(t *testing.T) {
	tests := []struct {
		name       string
		lookup     string
		suggestion string
		wantMsg    string
	}{
		{
			name:       "with suggestion",
			lookup:     "Yorke",
			suggestion: "York",
			wantMsg:    `round error: name="Yorke", err=round not found (did you mean "York"?)`,
		},
		{
			name:    "without suggestion",
			lookup:  "Moonshot",
			wantMsg: `round error: name="Moonshot", err=round not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRoundError(tt.lookup, tt.suggestion)

			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.lookup, err.Name)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.True(t, errors.Is(err, ErrRoundNotFound), "Should unwrap to ErrRoundNotFound")
		})
	}
}

func TestTableError(t *testing.T) {
	t.Run("table wide", func(t *testing.T) {
		err := NewTableError("handicap", "", ErrEmptyValue)
		assert.Equal(t, "handicap table error: empty value", err.Error())
		assert.ErrorIs(t, err, ErrEmptyValue)
	})

	t.Run("round specific", func(t *testing.T) {
		err := NewTableError("classification", "york", ErrThresholdMismatch)
		assert.Equal(t, "classification table error: round=york, err=threshold count mismatch", err.Error())
		assert.ErrorIs(t, err, ErrThresholdMismatch)

		var terr *TableError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, "york", terr.Round)
	})
}

func TestSelectionError(t *testing.T) {
	err := NewSelectionError("bowstyle", "crossbow")
	assert.Equal(t, `invalid selection: bowstyle "crossbow"`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("HandicapTableRequest")
		err.AddError("Rounds failed min=1 (got [])")

		assert.Equal(t, "validation error for HandicapTableRequest: Rounds failed min=1 (got [])", err.Error())
		assert.True(t, err.HasErrors())
		assert.Len(t, err.Errors, 1)
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("Selection")
		err.AddError("Bowstyle failed bowstyle")
		err.AddError("Age failed agegroup")

		assert.Contains(t, err.Error(), "validation errors for Selection")
		assert.Len(t, err.Errors, 2)
		assert.Equal(t, "Bowstyle failed bowstyle", err.Errors[0])
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("Config")

		assert.False(t, err.HasErrors())
		assert.Empty(t, err.Errors)
	})

	t.Run("matches invalid selection", func(t *testing.T) {
		assert.ErrorIs(t, NewValidationError("Selection"), ErrInvalidSelection)
	})
}

func TestCommonDomainErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrRoundNotFound, "round not found"},
		{ErrUnsupportedDiscipline, "unsupported discipline"},
		{ErrInvalidSelection, "invalid selection"},
		{ErrNonMonotonic, "score not monotonic in handicap"},
		{ErrThresholdMismatch, "threshold count mismatch"},
		{ErrEmptyValue, "empty value"},
		{ErrInvalidConfiguration, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}
