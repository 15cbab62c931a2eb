package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
	"github.com/ahrav/go-quiver/internal/taxonomy"
)

const kindHandicap = "handicap"

// HandicapTableBuilder produces handicap tables. It is safe for concurrent
// use once constructed.
type HandicapTableBuilder struct {
	registry  ports.RoundRegistry
	scorer    ports.HandicapScorer
	cfg       EngineConfig
	validator *validator.Validate
	tracer    trace.Tracer
	builderDeps
}

// NewHandicapTableBuilder creates a builder reading rounds from registry and
// scores from scorer.
func NewHandicapTableBuilder(
	registry ports.RoundRegistry,
	scorer ports.HandicapScorer,
	cfg EngineConfig,
	opts ...Option,
) (*HandicapTableBuilder, error) {
	if registry == nil {
		return nil, fmt.Errorf("round registry cannot be nil: %w", domain.ErrEmptyValue)
	}
	if scorer == nil {
		return nil, fmt.Errorf("handicap scorer cannot be nil: %w", domain.ErrEmptyValue)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &HandicapTableBuilder{
		registry:    registry,
		scorer:      scorer,
		cfg:         cfg,
		validator:   newValidator(),
		tracer:      otel.Tracer("handicap-table-builder"),
		builderDeps: newBuilderDeps(opts),
	}, nil
}

// Build evaluates the scorer at every handicap from domain.MinHandicap to
// domain.MaxHandicap for each requested round.
//
// In allowance mode each cell is AllowanceReference minus the score and no
// cell is suppressed. Otherwise a cell is suppressed when the next handicap
// yields the same raw score, so only the highest handicap reaching a given
// score keeps it.
func (b *HandicapTableBuilder) Build(ctx context.Context, req HandicapTableRequest) (*domain.HandicapTable, error) {
	start := time.Now()
	mode := domain.ModeAchieved
	if req.Allowance {
		mode = domain.ModeAllowance
	}

	ctx, span := b.tracer.Start(ctx, "HandicapTableBuilder.Build",
		trace.WithAttributes(
			attribute.Int("table.rounds", len(req.Rounds)),
			attribute.String("table.mode", mode.String()),
		),
	)
	defer span.End()

	table, err := b.build(ctx, req, mode)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	labels := map[string]string{"kind": kindHandicap, "status": status}
	b.metrics.RecordLatency(ports.OperationHandicapTable, time.Since(start), labels)
	b.metrics.RecordCounter(ports.MetricTablesBuilt, 1, labels)
	if err != nil {
		return nil, err
	}

	suppressed := 0
	for col := range table.Rounds {
		suppressed += table.SuppressedCount(col)
	}
	b.metrics.RecordGauge(ports.MetricSuppressedCells, float64(suppressed), map[string]string{"mode": mode.String()})
	span.SetAttributes(attribute.Int("table.suppressed_cells", suppressed))

	b.log.Debug("built handicap table",
		"rounds", table.Rounds,
		"mode", mode.String(),
		"suppressed", suppressed,
		"duration", time.Since(start),
	)
	return table, nil
}

func (b *HandicapTableBuilder) build(ctx context.Context, req HandicapTableRequest, mode domain.TableMode) (*domain.HandicapTable, error) {
	if err := b.validate(req); err != nil {
		return nil, domain.NewTableError(kindHandicap, "", err)
	}

	rounds, err := b.resolve(req.Rounds)
	if err != nil {
		return nil, domain.NewTableError(kindHandicap, "", err)
	}

	system := req.System
	if system == "" {
		system = b.cfg.ScoringSystem
	}

	raw := make([][]int, len(rounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.MaxConcurrency)
	for i, round := range rounds {
		g.Go(func() error {
			col, err := b.scoreColumn(gctx, round, system)
			if err != nil {
				return domain.NewTableError(kindHandicap, round.Codename, err)
			}
			raw[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.metrics.RecordCounter(ports.MetricScorerCalls, float64(len(rounds)*domain.HandicapRows), map[string]string{"kind": kindHandicap})

	for i, round := range rounds {
		if err := b.checkMonotonic(round, raw[i]); err != nil {
			return nil, domain.NewTableError(kindHandicap, round.Codename, err)
		}
	}

	labels := make([]string, len(rounds))
	for i, round := range rounds {
		labels[i] = round.Name
	}
	return assembleHandicapTable(labels, raw, mode, b.cfg.AllowanceReference), nil
}

func (b *HandicapTableBuilder) validate(req HandicapTableRequest) error {
	if err := b.validator.Struct(req); err != nil {
		return toValidationError("HandicapTableRequest", err)
	}
	if len(req.Rounds) > b.cfg.MaxRounds {
		verr := domain.NewValidationError("HandicapTableRequest")
		verr.AddError(fmt.Sprintf("Rounds has %d entries, at most %d allowed", len(req.Rounds), b.cfg.MaxRounds))
		return verr
	}
	return nil
}

// resolve maps display names to rounds, switching to the compound-scoring
// variant where requested.
func (b *HandicapTableBuilder) resolve(selections []RoundSelection) ([]domain.Round, error) {
	rounds := make([]domain.Round, len(selections))
	for i, sel := range selections {
		codename, err := b.registry.CodenameForName(sel.Name)
		if err != nil {
			return nil, err
		}
		if sel.Compound {
			codename = taxonomy.ToCompound(codename)
		}
		round, err := b.registry.Round(codename)
		if err != nil {
			return nil, err
		}
		rounds[i] = round
	}
	return rounds, nil
}

// scoreColumn evaluates the scorer at each integer handicap and truncates
// toward zero.
func (b *HandicapTableBuilder) scoreColumn(ctx context.Context, round domain.Round, system domain.ScoringSystem) ([]int, error) {
	col := make([]int, domain.HandicapRows)
	for h := domain.MinHandicap; h <= domain.MaxHandicap; h++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := b.scorer.ScoreForHandicap(ctx, round, float64(h), system)
		if err != nil {
			return nil, ports.NewScorerError(round.Codename, "ScoreForHandicap", err)
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, ports.NewScorerError(round.Codename, "ScoreForHandicap",
				fmt.Errorf("non-finite score %v at handicap %d", score, h))
		}
		col[h-domain.MinHandicap] = int(score)
	}
	return col, nil
}

// checkMonotonic reports scores that rise with handicap. Outside strict mode
// the first violation is logged and the table is still built.
func (b *HandicapTableBuilder) checkMonotonic(round domain.Round, col []int) error {
	for i := 1; i < len(col); i++ {
		if col[i] <= col[i-1] {
			continue
		}
		h := domain.MinHandicap + i
		if b.cfg.StrictMonotonic {
			return fmt.Errorf("%w: score rose from %d to %d at handicap %d", domain.ErrNonMonotonic, col[i-1], col[i], h)
		}
		b.log.Warn("score rose with handicap",
			"round", round.Codename,
			"handicap", h,
			"previous", col[i-1],
			"score", col[i],
		)
		return nil
	}
	return nil
}

// assembleHandicapTable lays raw columns out as rows and applies either the
// allowance transform or the collapse rule.
func assembleHandicapTable(labels []string, raw [][]int, mode domain.TableMode, reference int) *domain.HandicapTable {
	rows := make([]domain.HandicapRow, domain.HandicapRows)
	for i := range rows {
		rows[i] = domain.HandicapRow{
			Handicap: domain.MinHandicap + i,
			Cells:    make([]domain.Cell, len(raw)),
		}
	}

	for col, scores := range raw {
		for i, score := range scores {
			switch {
			case mode == domain.ModeAllowance:
				rows[i].Cells[col] = domain.Score(reference - score)
			case i+1 < len(scores) && scores[i+1] == score:
				rows[i].Cells[col] = domain.Suppressed()
			default:
				rows[i].Cells[col] = domain.Score(score)
			}
		}
	}

	return &domain.HandicapTable{
		Rounds: labels,
		Mode:   mode,
		Rows:   rows,
	}
}
