// Package taxonomy canonicalizes round codenames before tables are built:
// it hides rounds that duplicate another for a given archer, maps indoor
// rounds to their compound-scoring variants, resolves aliases and sorts
// rounds into the canonical family order.
//
// Every function is pure. Inputs are never modified and results are new
// slices.
package taxonomy

import (
	"slices"

	"github.com/ahrav/go-quiver/internal/domain"
)

// smallFaceRounds are never shown in classification tables.
var smallFaceRounds = []string{"wa1440_90_small", "wa1440_70_small", "wa1440_60_small"}

// Blacklist returns the codenames hidden from classification display for
// sel. The selection is normalized first, so callers may pass raw input.
func Blacklist(sel domain.Selection) []string {
	sel = sel.Normalized()

	excluded := slices.Clone(smallFaceRounds)

	switch sel.Gender {
	case domain.GenderMale:
		excluded = append(excluded, "hereford", "long_metric_ladies", "wa1440_60")
		if sel.Age == domain.AgeFiftyPlus {
			excluded = append(excluded, "metric_i")
		} else {
			excluded = append(excluded, "wa1440_70")
		}
	case domain.GenderFemale:
		excluded = append(excluded, "bristol_i", "long_metric_i")
		if sel.Age == domain.AgeFiftyPlus {
			excluded = append(excluded, "metric_ii")
		} else {
			excluded = append(excluded, "wa1440_60")
		}
	}

	if sel.Age == domain.AgeAdult || sel.Age == domain.AgeFiftyPlus {
		excluded = append(excluded, "short_metric_i")
	} else {
		excluded = append(excluded, "short_metric")
	}

	if sel.Bowstyle == domain.BowstyleCompound {
		excluded = append(excluded, "metric_80_50")
	} else {
		excluded = append(excluded, "wa720_50_c")
	}

	if sel.Bowstyle == domain.BowstyleBarebow {
		excluded = append(excluded, "metric_122_50")
	} else {
		excluded = append(excluded, "wa720_50_b")
	}

	return excluded
}

// FilterForDisplay removes codenames that would duplicate another round for
// sel, preserving the order of the rest. Filtering twice gives the same
// result as filtering once.
func FilterForDisplay(codenames []string, sel domain.Selection) []string {
	excluded := make(map[string]struct{})
	for _, c := range Blacklist(sel) {
		excluded[c] = struct{}{}
	}

	kept := make([]string, 0, len(codenames))
	for _, c := range codenames {
		if _, ok := excluded[c]; !ok {
			kept = append(kept, c)
		}
	}
	return kept
}
