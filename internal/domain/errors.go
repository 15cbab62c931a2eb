package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur while building tables.
var (
	// ErrRoundNotFound indicates that a round name or codename is not in the
	// registry.
	ErrRoundNotFound = errors.New("round not found")

	// ErrUnsupportedDiscipline indicates a discipline with no classification
	// scheme, such as field.
	ErrUnsupportedDiscipline = errors.New("unsupported discipline")

	// ErrInvalidSelection indicates an unknown bowstyle, gender, age group or
	// discipline.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrNonMonotonic indicates that a score function rose as handicap
	// increased.
	ErrNonMonotonic = errors.New("score not monotonic in handicap")

	// ErrThresholdMismatch indicates that a classification scorer returned a
	// different number of thresholds than there are ranked tiers.
	ErrThresholdMismatch = errors.New("threshold count mismatch")

	// ErrEmptyValue indicates that a required value is empty or nil.
	ErrEmptyValue = errors.New("empty value")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// RoundError reports a round that could not be resolved, with the closest
// known display name when one exists.
type RoundError struct {
	// Name is the name or codename that was looked up.
	Name string

	// Suggestion is the nearest registered display name, if any.
	Suggestion string

	// Err is the underlying error, usually ErrRoundNotFound.
	Err error
}

// Error implements the error interface for RoundError.
func (e *RoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("round error: name=%q, err=%v (did you mean %q?)", e.Name, e.Err, e.Suggestion)
	}
	return fmt.Sprintf("round error: name=%q, err=%v", e.Name, e.Err)
}

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *RoundError) Unwrap() error { return e.Err }

// NewRoundError creates a RoundError wrapping ErrRoundNotFound.
func NewRoundError(name, suggestion string) *RoundError {
	return &RoundError{Name: name, Suggestion: suggestion, Err: ErrRoundNotFound}
}

// NewSelectionError reports an unrecognised value for field.
func NewSelectionError(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidSelection, field, value)
}

// TableError reports a failure while building a table, naming the round
// being processed when the failure is round specific.
type TableError struct {
	// Kind is "handicap" or "classification".
	Kind string

	// Round is the codename being processed, empty for table-wide failures.
	Round string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for TableError.
func (e *TableError) Error() string {
	if e.Round == "" {
		return fmt.Sprintf("%s table error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s table error: round=%s, err=%v", e.Kind, e.Round, e.Err)
}

// Unwrap returns the underlying error.
func (e *TableError) Unwrap() error { return e.Err }

// NewTableError creates a new TableError with the given details.
func NewTableError(kind, round string, err error) *TableError {
	return &TableError{Kind: kind, Round: round, Err: err}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// Unwrap lets callers match validation failures with ErrInvalidSelection.
func (e *ValidationError) Unwrap() error { return ErrInvalidSelection }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
