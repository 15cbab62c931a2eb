// Command quiver prints handicap and classification tables from YAML round
// and score files.
//
//	quiver handicap -rounds rounds.yaml -curves curves.yaml York "WA 18m"
//	quiver classification -rounds rounds.yaml -thresholds classes.yaml -discipline indoor -bowstyle compound
//	quiver calc -rounds rounds.yaml -curves curves.yaml -round York -score 800
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-quiver/infrastructure/middleware"
	"github.com/ahrav/go-quiver/infrastructure/scoring"
	"github.com/ahrav/go-quiver/internal/application"
	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/logger"
	"github.com/ahrav/go-quiver/internal/ports"
)

const usage = `usage: quiver <command> [flags]

commands:
  handicap        print a handicap table for one or more rounds
  classification  print classification thresholds for an archer
  calc            compute the handicap for a score on a round
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "quiver: %v\n", err)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run dispatches args[0] to its subcommand. Tables go to stdout; logs and
// metrics go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}

	switch args[0] {
	case "handicap":
		return runHandicap(ctx, args[1:], stdout, stderr)
	case "classification":
		return runClassification(ctx, args[1:], stdout, stderr)
	case "calc":
		return runCalc(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	}

	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// common holds the flags shared by every subcommand.
type common struct {
	rounds  string
	config  string
	metrics bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.rounds, "rounds", "rounds.yaml", "round registry YAML file")
	fs.StringVar(&c.config, "config", "", "engine config YAML file (defaults when empty)")
	fs.BoolVar(&c.metrics, "metrics", false, "dump Prometheus metrics to stderr on exit")
}

// env is the wiring built from the common flags.
type env struct {
	cfg      application.EngineConfig
	registry *application.InMemoryRoundRegistry
	log      logger.Logger
	reg      *prometheus.Registry
	metrics  *middleware.PrometheusMetrics
	opts     []application.Option
}

func (c *common) setup(ctx context.Context, stderr io.Writer) (*env, error) {
	cfg, err := application.LoadEngineConfig(c.config)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(stderr, logger.ParseLevel(cfg.LogLevel))

	loader, err := application.NewRegistryLoader()
	if err != nil {
		return nil, err
	}
	registry, err := loader.LoadFromFile(ctx, c.rounds)
	if err != nil {
		return nil, fmt.Errorf("loading rounds from %s: %w", c.rounds, err)
	}
	log.Debug("loaded round registry", "path", c.rounds, "rounds", registry.Len())

	e := &env{cfg: cfg, registry: registry, log: log}
	e.opts = append(e.opts, application.WithLogger(log))
	if c.metrics {
		e.reg = prometheus.NewRegistry()
		e.metrics = middleware.NewPrometheusMetricsWith(e.reg)
		e.opts = append(e.opts, application.WithMetrics(e.metrics))
	}
	return e, nil
}

// wrapScorer applies the configured scorer policy to s, tracing outermost.
func (e *env) wrapScorer(s ports.HandicapScorer) ports.HandicapScorer {
	p := e.cfg.Scorer
	var mws []scoring.Middleware
	if p.Trace {
		mws = append(mws, scoring.TracingMiddleware("quiver-scorer"))
	}
	if e.metrics != nil {
		mws = append(mws, scoring.MetricsMiddleware(e.metrics))
	}
	if p.Cache {
		mws = append(mws, scoring.CachingMiddleware())
	}
	if p.RateLimit > 0 {
		mws = append(mws, scoring.RateLimitMiddleware(rate.Limit(p.RateLimit), p.Burst))
	}
	if p.Timeout > 0 {
		mws = append(mws, scoring.TimeoutMiddleware(p.Timeout))
	}
	return scoring.Chain(s, mws...)
}

// dumpMetrics writes gathered metrics in the text exposition format.
func (e *env) dumpMetrics(w io.Writer) error {
	if e.reg == nil {
		return nil
	}
	families, err := e.reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func runHandicap(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("handicap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		c         common
		curves    = fs.String("curves", "curves.yaml", "handicap curve YAML file")
		allowance = fs.Bool("allowance", false, "print allowances instead of scores")
		compound  = fs.String("compound", "", "comma-separated round names to score as compound variants")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("handicap: at least one round name is required")
	}

	e, err := c.setup(ctx, stderr)
	if err != nil {
		return err
	}
	scorer, err := scoring.LoadHandicapScorer(*curves)
	if err != nil {
		return err
	}
	builder, err := application.NewHandicapTableBuilder(e.registry, e.wrapScorer(scorer), e.cfg, e.opts...)
	if err != nil {
		return err
	}

	asCompound := make(map[string]bool)
	for _, name := range splitList(*compound) {
		asCompound[strings.ToLower(name)] = true
	}
	req := application.HandicapTableRequest{Allowance: *allowance}
	for _, name := range fs.Args() {
		req.Rounds = append(req.Rounds, application.RoundSelection{
			Name:     name,
			Compound: asCompound[strings.ToLower(name)],
		})
	}

	table, err := builder.Build(ctx, req)
	if err != nil {
		return err
	}
	if err := writeHandicapTable(stdout, table); err != nil {
		return err
	}
	return e.dumpMetrics(stderr)
}

func runClassification(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("classification", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		c          common
		thresholds = fs.String("thresholds", "classes.yaml", "classification threshold YAML file")
		discipline = fs.String("discipline", "outdoor", "outdoor or indoor")
		bowstyle   = fs.String("bowstyle", "recurve", "archer bowstyle")
		gender     = fs.String("gender", "male", "archer gender category")
		age        = fs.String("age", "adult", "archer age group")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := domain.ParseDiscipline(*discipline)
	if err != nil {
		return err
	}

	e, err := c.setup(ctx, stderr)
	if err != nil {
		return err
	}
	scorer, err := scoring.LoadClassificationScorer(*thresholds)
	if err != nil {
		return err
	}
	builder, err := application.NewClassificationTableBuilder(e.registry, scorer, e.cfg, e.opts...)
	if err != nil {
		return err
	}

	table, err := builder.Build(ctx, application.ClassificationTableRequest{
		Selection:  domain.Selection{Bowstyle: *bowstyle, Gender: *gender, Age: *age},
		Discipline: d,
	})
	if err != nil {
		return err
	}
	if err := writeClassificationTable(stdout, table); err != nil {
		return err
	}
	return e.dumpMetrics(stderr)
}

func runCalc(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		c      common
		curves = fs.String("curves", "curves.yaml", "handicap curve YAML file")
		name   = fs.String("round", "", "round display name")
		score  = fs.Float64("score", 0, "score shot on the round")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("calc: -round is required")
	}

	e, err := c.setup(ctx, stderr)
	if err != nil {
		return err
	}
	scorer, err := scoring.LoadHandicapScorer(*curves)
	if err != nil {
		return err
	}
	calc, err := application.NewHandicapCalculator(e.wrapScorer(scorer), e.cfg, e.opts...)
	if err != nil {
		return err
	}

	codename, err := e.registry.CodenameForName(*name)
	if err != nil {
		return err
	}
	round, err := e.registry.Round(codename)
	if err != nil {
		return err
	}

	est, err := calc.HandicapForScore(ctx, round, *score)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %g: handicap %d (root %.4f, residual %.3g, %d iterations)\n",
		round.Name, *score, est.Rounded, est.Handicap, est.Residual, est.Iterations)
	return e.dumpMetrics(stderr)
}

// writeHandicapTable prints one row per handicap. Suppressed cells are blank.
func writeHandicapTable(w io.Writer, table *domain.HandicapTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Handicap\t%s\t\n", strings.Join(table.Rounds, "\t"))
	for _, row := range table.Rows {
		fields := make([]string, 0, len(row.Cells)+1)
		fields = append(fields, strconv.Itoa(row.Handicap))
		for _, cell := range row.Cells {
			if v, ok := cell.Value(); ok {
				fields = append(fields, strconv.Itoa(v))
			} else {
				fields = append(fields, "")
			}
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(fields, "\t"))
	}
	return tw.Flush()
}

func writeClassificationTable(w io.Writer, table *domain.ClassificationTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t\n", strings.Join(table.Header(), "\t"))
	for _, line := range table.Grid() {
		fmt.Fprintf(tw, "%s\t\n", strings.Join(line, "\t"))
	}
	return tw.Flush()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
