package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
	"github.com/ahrav/go-quiver/internal/taxonomy"
)

const kindClassification = "classification"

// ClassificationTableBuilder produces classification tables. It is safe for
// concurrent use once constructed.
type ClassificationTableBuilder struct {
	registry  ports.RoundRegistry
	scorer    ports.ClassificationScorer
	cfg       EngineConfig
	validator *validator.Validate
	tracer    trace.Tracer
	builderDeps
}

// NewClassificationTableBuilder creates a builder reading rounds from
// registry and thresholds from scorer.
func NewClassificationTableBuilder(
	registry ports.RoundRegistry,
	scorer ports.ClassificationScorer,
	cfg EngineConfig,
	opts ...Option,
) (*ClassificationTableBuilder, error) {
	if registry == nil {
		return nil, fmt.Errorf("round registry cannot be nil: %w", domain.ErrEmptyValue)
	}
	if scorer == nil {
		return nil, fmt.Errorf("classification scorer cannot be nil: %w", domain.ErrEmptyValue)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ClassificationTableBuilder{
		registry:    registry,
		scorer:      scorer,
		cfg:         cfg,
		validator:   newValidator(),
		tracer:      otel.Tracer("classification-table-builder"),
		builderDeps: newBuilderDeps(opts),
	}, nil
}

// Build lists, for every round of the requested discipline, the minimum
// score for each ranked tier. Columns run from the lowest ranked tier to the
// highest; the trailing unclassified tier has no column.
//
// Outdoor rounds appear in family order. Indoor rounds keep registry order
// with compound variants and blacklisted rounds removed; compound archers
// are scored on the compound variant under the standard round's name.
func (b *ClassificationTableBuilder) Build(ctx context.Context, req ClassificationTableRequest) (*domain.ClassificationTable, error) {
	start := time.Now()

	ctx, span := b.tracer.Start(ctx, "ClassificationTableBuilder.Build",
		trace.WithAttributes(
			attribute.String("table.discipline", req.Discipline.String()),
			attribute.String("selection.bowstyle", req.Selection.Bowstyle),
			attribute.String("selection.gender", req.Selection.Gender),
			attribute.String("selection.age", req.Selection.Age),
		),
	)
	defer span.End()

	table, err := b.build(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	labels := map[string]string{"kind": kindClassification, "status": status}
	b.metrics.RecordLatency(ports.OperationClassificationTable, time.Since(start), labels)
	b.metrics.RecordCounter(ports.MetricTablesBuilt, 1, labels)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("table.rows", len(table.Rows)))
	b.log.Debug("built classification table",
		"discipline", req.Discipline.String(),
		"rows", len(table.Rows),
		"tiers", len(table.Tiers),
		"duration", time.Since(start),
	)
	return table, nil
}

func (b *ClassificationTableBuilder) build(ctx context.Context, req ClassificationTableRequest) (*domain.ClassificationTable, error) {
	if err := b.validator.Struct(req); err != nil {
		return nil, domain.NewTableError(kindClassification, "", toValidationError("ClassificationTableRequest", err))
	}
	sel := req.Selection.Normalized()

	var (
		tiers  []string
		rounds []scoredRound
	)
	switch req.Discipline {
	case domain.DisciplineOutdoor:
		tiers = b.cfg.OutdoorTiers
		rounds = b.outdoorRounds()
	case domain.DisciplineIndoor:
		tiers = b.cfg.IndoorTiers
		rounds = b.indoorRounds(sel)
	default:
		return nil, domain.NewTableError(kindClassification, "",
			fmt.Errorf("%w: %s", domain.ErrUnsupportedDiscipline, req.Discipline))
	}

	ranked := len(tiers) - 1
	rows := make([]domain.ClassificationRow, 0, len(rounds))
	for _, r := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		thresholds, err := b.scorer.Thresholds(ctx, req.Discipline, r.scored, sel)
		if err != nil {
			return nil, domain.NewTableError(kindClassification, r.scored.Codename,
				ports.NewScorerError(r.scored.Codename, "Thresholds", err))
		}
		if len(thresholds) != ranked {
			return nil, domain.NewTableError(kindClassification, r.scored.Codename,
				fmt.Errorf("%w: got %d thresholds for %d ranked tiers", domain.ErrThresholdMismatch, len(thresholds), ranked))
		}

		reversed := slices.Clone(thresholds)
		slices.Reverse(reversed)
		rows = append(rows, domain.ClassificationRow{Round: r.display, Thresholds: reversed})
	}
	b.metrics.RecordCounter(ports.MetricScorerCalls, float64(len(rounds)), map[string]string{"kind": kindClassification})

	displayTiers := slices.Clone(tiers[:ranked])
	slices.Reverse(displayTiers)

	return &domain.ClassificationTable{
		Selection:  sel,
		Discipline: req.Discipline,
		Tiers:      displayTiers,
		Rows:       rows,
	}, nil
}

// scoredRound pairs the round shown in the table with the round whose
// thresholds are looked up. They differ only for compound indoor archers.
type scoredRound struct {
	display string
	scored  domain.Round
}

func (b *ClassificationTableBuilder) outdoorRounds() []scoredRound {
	rounds := b.registry.Filter(func(r domain.Round) bool {
		return r.Location == domain.LocationOutdoor && slices.Contains(b.cfg.OutdoorBodies, r.Body)
	})

	out := make([]scoredRound, 0, len(rounds))
	for _, r := range taxonomy.OrderByFamily(rounds) {
		out = append(out, scoredRound{display: r.Name, scored: r})
	}
	return out
}

func (b *ClassificationTableBuilder) indoorRounds(sel domain.Selection) []scoredRound {
	rounds := taxonomy.WithoutCompoundVariants(b.registry.Filter(func(r domain.Round) bool {
		return r.Location == domain.LocationIndoor && slices.Contains(b.cfg.IndoorBodies, r.Body)
	}))

	codenames := make([]string, len(rounds))
	byCodename := make(map[string]domain.Round, len(rounds))
	for i, r := range rounds {
		codenames[i] = r.Codename
		byCodename[r.Codename] = r
	}

	compound := sel.Bowstyle == domain.BowstyleCompound
	kept := taxonomy.FilterForDisplay(codenames, sel)
	out := make([]scoredRound, 0, len(kept))
	for _, codename := range kept {
		r := byCodename[codename]
		scored := r
		if compound {
			scored = b.compoundVariant(r)
		}
		out = append(out, scoredRound{display: r.Name, scored: scored})
	}
	return out
}

// compoundVariant returns the compound-scoring round for r, or r itself when
// the registry has no such variant.
func (b *ClassificationTableBuilder) compoundVariant(r domain.Round) domain.Round {
	codename := taxonomy.ToCompound(r.Codename)
	if codename == r.Codename {
		return r
	}

	variant, err := b.registry.Round(codename)
	if err != nil {
		if !errors.Is(err, domain.ErrRoundNotFound) {
			b.log.Warn("compound variant lookup failed", "round", r.Codename, "error", err)
		} else {
			b.log.Debug("no compound variant registered", "round", r.Codename, "variant", codename)
		}
		return r
	}
	return variant
}
