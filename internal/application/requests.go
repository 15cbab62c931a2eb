package application

import (
	"github.com/ahrav/go-quiver/infrastructure/middleware"
	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/logger"
	"github.com/ahrav/go-quiver/internal/ports"
)

// RoundSelection names one column of a handicap table.
type RoundSelection struct {
	// Name is the round's display name.
	Name string `yaml:"name" validate:"required"`
	// Compound switches the column to the compound-scoring variant.
	Compound bool `yaml:"compound"`
}

// HandicapTableRequest asks for a handicap table. Rounds holds at least one
// entry; the upper bound comes from EngineConfig.MaxRounds.
type HandicapTableRequest struct {
	Rounds    []RoundSelection     `yaml:"rounds" validate:"required,min=1,dive"`
	Allowance bool                 `yaml:"allowance"`
	System    domain.ScoringSystem `yaml:"system"`
}

// ClassificationTableRequest asks for a classification table.
type ClassificationTableRequest struct {
	Selection  domain.Selection  `yaml:"selection"`
	Discipline domain.Discipline `yaml:"discipline" validate:"required,discipline"`
}

// Option configures a table builder or calculator.
type Option func(*builderDeps)

// builderDeps holds the optional collaborators shared by the builders.
type builderDeps struct {
	metrics ports.MetricsCollector
	log     logger.Logger
}

func newBuilderDeps(opts []Option) builderDeps {
	deps := builderDeps{
		metrics: middleware.NoopMetrics{},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return deps
}

// WithMetrics records build metrics to m.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(d *builderDeps) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithLogger sends builder logs to l.
func WithLogger(l logger.Logger) Option {
	return func(d *builderDeps) {
		if l != nil {
			d.log = l
		}
	}
}
