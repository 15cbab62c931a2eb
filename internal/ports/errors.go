package ports

import (
	"errors"
	"fmt"
)

// Common collaborator errors.
var (
	// ErrNoScore indicates that a scorer has no data for the requested round
	// or selection.
	ErrNoScore = errors.New("no score available")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// ScorerError represents a failure reported by a scoring collaborator.
// It names the round and operation that failed.
type ScorerError struct {
	// Round is the codename the scorer was called for.
	Round string

	// Operation is the scorer method that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ScorerError.
func (e *ScorerError) Error() string {
	return fmt.Sprintf("scorer error: operation=%s, round=%s, err=%v", e.Operation, e.Round, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScorerError) Unwrap() error { return e.Err }

// NewScorerError creates a new ScorerError with the given details.
func NewScorerError(round, operation string, err error) *ScorerError {
	return &ScorerError{
		Round:     round,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
