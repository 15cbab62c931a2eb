// Package scoring provides scoring collaborators backed by YAML tables, for
// use where the closed-form handicap formulas are supplied offline.
package scoring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
)

// Knot is one sampled point of a score curve.
type Knot struct {
	Handicap float64 `yaml:"handicap"`
	Score    float64 `yaml:"score" validate:"min=0"`
}

// HandicapCurves is the YAML document read by LoadHandicapScorer.
//
//	system: AGB
//	curves:
//	  york:
//	    - {handicap: 0, score: 1290}
//	    - {handicap: 150, score: 0}
type HandicapCurves struct {
	System domain.ScoringSystem `yaml:"system" validate:"required"`
	Curves map[string][]Knot    `yaml:"curves" validate:"required,min=1,dive,keys,required,endkeys,min=2,dive"`
}

// TabulatedHandicapScorer implements ports.HandicapScorer by linear
// interpolation between sampled knots. Handicaps outside the sampled range
// take the nearest end value. It is read-only after construction.
type TabulatedHandicapScorer struct {
	system domain.ScoringSystem
	curves map[string][]Knot
}

// Verify interface compliance at compile time.
var _ ports.HandicapScorer = (*TabulatedHandicapScorer)(nil)

// NewTabulatedHandicapScorer validates doc and builds a scorer from it.
// Knots are sorted by handicap; duplicate handicaps and scores that rise
// with handicap are rejected.
func NewTabulatedHandicapScorer(doc HandicapCurves) (*TabulatedHandicapScorer, error) {
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid handicap curves: %w", err)
	}

	curves := make(map[string][]Knot, len(doc.Curves))
	for codename, knots := range doc.Curves {
		sorted := slices.Clone(knots)
		slices.SortFunc(sorted, func(a, b Knot) int {
			switch {
			case a.Handicap < b.Handicap:
				return -1
			case a.Handicap > b.Handicap:
				return 1
			}
			return 0
		})
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Handicap == sorted[i-1].Handicap {
				return nil, fmt.Errorf("curve %s: duplicate handicap %g", codename, sorted[i].Handicap)
			}
			if sorted[i].Score > sorted[i-1].Score {
				return nil, fmt.Errorf("curve %s: %w at handicap %g", codename, domain.ErrNonMonotonic, sorted[i].Handicap)
			}
		}
		curves[codename] = sorted
	}

	return &TabulatedHandicapScorer{system: doc.System, curves: curves}, nil
}

// LoadHandicapScorer reads a HandicapCurves document from path.
func LoadHandicapScorer(path string) (*TabulatedHandicapScorer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open handicap curves: %w", err)
	}
	defer f.Close()

	return ReadHandicapScorer(f)
}

// ReadHandicapScorer reads a HandicapCurves document from r.
func ReadHandicapScorer(r io.Reader) (*TabulatedHandicapScorer, error) {
	var doc HandicapCurves
	if err := decodeStrict(r, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse handicap curves: %w", err)
	}
	return NewTabulatedHandicapScorer(doc)
}

// ScoreForHandicap implements ports.HandicapScorer.
func (s *TabulatedHandicapScorer) ScoreForHandicap(
	ctx context.Context,
	round domain.Round,
	handicap float64,
	system domain.ScoringSystem,
) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if system != s.system {
		return 0, fmt.Errorf("scoring system %q not tabulated (have %q): %w", system, s.system, ports.ErrNoScore)
	}

	knots, ok := s.curves[round.Codename]
	if !ok {
		return 0, fmt.Errorf("no curve for round %s: %w", round.Codename, ports.ErrNoScore)
	}
	return interpolate(knots, handicap), nil
}

// Rounds returns the codenames that have a curve, sorted.
func (s *TabulatedHandicapScorer) Rounds() []string {
	out := make([]string, 0, len(s.curves))
	for codename := range s.curves {
		out = append(out, codename)
	}
	slices.Sort(out)
	return out
}

// interpolate assumes knots are sorted by handicap and hold at least two
// entries.
func interpolate(knots []Knot, h float64) float64 {
	if h <= knots[0].Handicap {
		return knots[0].Score
	}
	last := knots[len(knots)-1]
	if h >= last.Handicap {
		return last.Score
	}

	i, _ := slices.BinarySearchFunc(knots, h, func(k Knot, target float64) int {
		switch {
		case k.Handicap < target:
			return -1
		case k.Handicap > target:
			return 1
		}
		return 0
	})
	if knots[i].Handicap == h {
		return knots[i].Score
	}

	lo, hi := knots[i-1], knots[i]
	t := (h - lo.Handicap) / (hi.Handicap - lo.Handicap)
	return lo.Score + t*(hi.Score-lo.Score)
}

func decodeStrict(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}
