package scoring

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
)

// ThresholdEntry is the tier thresholds for one round and archer category,
// highest tier first.
type ThresholdEntry struct {
	Discipline string `yaml:"discipline" validate:"required,oneof=outdoor indoor"`
	Round      string `yaml:"round" validate:"required"`
	Bowstyle   string `yaml:"bowstyle" validate:"required"`
	Gender     string `yaml:"gender" validate:"required"`
	Age        string `yaml:"age" validate:"required"`
	Thresholds []int  `yaml:"thresholds" validate:"required,min=1,dive,min=0"`
}

// ClassificationThresholds is the YAML document read by
// LoadClassificationScorer.
type ClassificationThresholds struct {
	Entries []ThresholdEntry `yaml:"entries" validate:"required,min=1,dive"`
}

type thresholdKey struct {
	discipline domain.Discipline
	round      string
	sel        domain.Selection
}

// TabulatedClassificationScorer implements ports.ClassificationScorer from
// a fixed list of entries. Selections are compared after normalization.
type TabulatedClassificationScorer struct {
	entries map[thresholdKey][]int
}

// Verify interface compliance at compile time.
var _ ports.ClassificationScorer = (*TabulatedClassificationScorer)(nil)

// NewTabulatedClassificationScorer validates doc and indexes its entries.
// Thresholds must not rise from one tier to the next lower tier, and an
// entry may not be declared twice.
func NewTabulatedClassificationScorer(doc ClassificationThresholds) (*TabulatedClassificationScorer, error) {
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid classification thresholds: %w", err)
	}

	entries := make(map[thresholdKey][]int, len(doc.Entries))
	for i, e := range doc.Entries {
		discipline, err := domain.ParseDiscipline(e.Discipline)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		key := thresholdKey{
			discipline: discipline,
			round:      e.Round,
			sel:        domain.Selection{Bowstyle: e.Bowstyle, Gender: e.Gender, Age: e.Age}.Normalized(),
		}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("entry %d: duplicate thresholds for %s %s/%s/%s",
				i, e.Round, key.sel.Bowstyle, key.sel.Gender, key.sel.Age)
		}
		for j := 1; j < len(e.Thresholds); j++ {
			if e.Thresholds[j] > e.Thresholds[j-1] {
				return nil, fmt.Errorf("entry %d (%s): threshold %d exceeds the tier above", i, e.Round, j)
			}
		}
		entries[key] = slices.Clone(e.Thresholds)
	}

	return &TabulatedClassificationScorer{entries: entries}, nil
}

// LoadClassificationScorer reads a ClassificationThresholds document from path.
func LoadClassificationScorer(path string) (*TabulatedClassificationScorer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open classification thresholds: %w", err)
	}
	defer f.Close()

	return ReadClassificationScorer(f)
}

// ReadClassificationScorer reads a ClassificationThresholds document from r.
func ReadClassificationScorer(r io.Reader) (*TabulatedClassificationScorer, error) {
	var doc ClassificationThresholds
	if err := decodeStrict(r, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse classification thresholds: %w", err)
	}
	return NewTabulatedClassificationScorer(doc)
}

// Thresholds implements ports.ClassificationScorer. The returned slice is a
// copy.
func (s *TabulatedClassificationScorer) Thresholds(
	ctx context.Context,
	discipline domain.Discipline,
	round domain.Round,
	sel domain.Selection,
) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := thresholdKey{discipline: discipline, round: round.Codename, sel: sel.Normalized()}
	thresholds, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("no thresholds for %s %s (%s/%s/%s): %w",
			discipline, round.Codename, key.sel.Bowstyle, key.sel.Gender, key.sel.Age, ports.ErrNoScore)
	}
	return slices.Clone(thresholds), nil
}
