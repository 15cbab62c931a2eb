// Package application builds handicap and classification tables from a
// round registry and external scoring collaborators.
package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
	"github.com/ahrav/go-quiver/internal/solver"
)

// EnvPrefix is prepended to every environment override, e.g.
// QUIVER_SOLVER_MAX_ITERATIONS.
const EnvPrefix = "QUIVER_"

// EngineConfig holds the tunables shared by the table builders.
// Values come from DefaultEngineConfig, are overlaid by an optional YAML
// file and finally by QUIVER_* environment variables.
type EngineConfig struct {
	// ScoringSystem is passed to the handicap scorer when a request does
	// not name one.
	ScoringSystem domain.ScoringSystem `yaml:"scoring_system" env:"SCORING_SYSTEM" validate:"required"`
	// MaxRounds caps the number of columns in a handicap table.
	MaxRounds int `yaml:"max_rounds" env:"MAX_ROUNDS" validate:"min=1,max=50"`
	// AllowanceReference is subtracted from in allowance mode.
	AllowanceReference int `yaml:"allowance_reference" env:"ALLOWANCE_REFERENCE" validate:"min=1"`
	// Solver bounds the root finder used for score inversion.
	Solver solver.Options `yaml:"solver" envPrefix:"SOLVER_"`
	// HandicapBracket is searched when inverting a score to a handicap.
	HandicapBracket Bracket `yaml:"handicap_bracket" envPrefix:"BRACKET_"`
	// FTol is the residual accepted by strict convergence checks.
	FTol float64 `yaml:"f_tol" env:"FTOL" validate:"min=0"`
	// StrictConvergence turns a residual above FTol into an error.
	StrictConvergence bool `yaml:"strict_convergence" env:"STRICT_CONVERGENCE"`
	// StrictMonotonic fails handicap tables whose scores rise with handicap.
	StrictMonotonic bool `yaml:"strict_monotonic" env:"STRICT_MONOTONIC"`
	// MaxConcurrency limits concurrent round columns per handicap table.
	MaxConcurrency int `yaml:"max_concurrency" env:"MAX_CONCURRENCY" validate:"min=1,max=64"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	// OutdoorTiers and IndoorTiers list classification tiers highest
	// first. The last entry is the unclassified catch-all.
	OutdoorTiers []string `yaml:"outdoor_tiers" env:"OUTDOOR_TIERS" envSeparator:"," validate:"min=2,dive,required"`
	IndoorTiers  []string `yaml:"indoor_tiers" env:"INDOOR_TIERS" envSeparator:"," validate:"min=2,dive,required"`
	// OutdoorBodies and IndoorBodies select which governing bodies' rounds
	// appear in classification tables.
	OutdoorBodies []string `yaml:"outdoor_bodies" env:"OUTDOOR_BODIES" envSeparator:"," validate:"min=1,dive,required"`
	IndoorBodies  []string `yaml:"indoor_bodies" env:"INDOOR_BODIES" envSeparator:"," validate:"min=1,dive,required"`
	// Scorer controls how calls to the handicap scorer are wrapped.
	Scorer ScorerPolicy `yaml:"scorer" envPrefix:"SCORER_"`
}

// ScorerPolicy describes the middleware placed around a handicap scorer.
// Zero values disable the corresponding middleware.
type ScorerPolicy struct {
	// Timeout bounds a single scorer call.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"min=0"`
	// RateLimit is the sustained scorer calls per second.
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT" validate:"min=0"`
	// Burst is the rate limiter bucket size; it must be set with RateLimit.
	Burst int `yaml:"burst" env:"BURST" validate:"required_with=RateLimit,min=0"`
	// Cache memoizes successful scores per round, handicap and system.
	Cache bool `yaml:"cache" env:"CACHE"`
	// Trace wraps each call in a span.
	Trace bool `yaml:"trace" env:"TRACE"`
}

// Bracket is a closed search interval.
type Bracket struct {
	Min float64 `yaml:"min" env:"MIN"`
	Max float64 `yaml:"max" env:"MAX" validate:"gtfield=Min"`
}

// DefaultEngineConfig returns the configuration used when nothing is
// overridden. Tier names follow the Archery GB scheme.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ScoringSystem:      domain.SystemAGB,
		MaxRounds:          7,
		AllowanceReference: domain.AllowanceReference,
		Solver:             solver.DefaultOptions(),
		HandicapBracket:    Bracket{Min: -75, Max: 300},
		FTol:               1e-6,
		MaxConcurrency:     4,
		LogLevel:           "info",
		OutdoorTiers:       []string{"EMB", "GMB", "MB", "B1", "B2", "B3", "A1", "A2", "A3", "UC"},
		IndoorTiers:        []string{"I-GMB", "I-MB", "I-B1", "I-B2", "I-B3", "I-A1", "I-A2", "I-A3", "UC"},
		OutdoorBodies:      []string{"AGB", "WA"},
		IndoorBodies:       []string{"AGB", "WA"},
	}
}

// LoadEngineConfig reads YAML from path over the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func LoadEngineConfig(path string) (EngineConfig, error) {
	if path == "" {
		return LoadEngineConfigFrom(nil)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return EngineConfig{}, ports.NewConfigError(path, ports.ErrConfigNotFound)
		}
		return EngineConfig{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	return LoadEngineConfigFrom(f)
}

// LoadEngineConfigFrom is LoadEngineConfig for an already open reader.
// A nil reader applies only defaults and environment overrides.
func LoadEngineConfigFrom(r io.Reader) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	if r != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return EngineConfig{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return EngineConfig{}, ports.NewConfigError("env", err)
	}

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c EngineConfig) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, toValidationError("EngineConfig", err))
	}
	return nil
}
