package taxonomy

import (
	"slices"
	"strings"

	"github.com/ahrav/go-quiver/internal/domain"
)

// familyOrder is the canonical display sequence. The 720 families share one
// slot and are split further by sub-variant in familyRank.
var familyOrder = []domain.Family{
	domain.FamilyYorkHerefordBristol,
	domain.FamilyStGeorgeAlbionWindsor,
	domain.FamilyNational,
	domain.FamilyWestern,
	domain.FamilyWarwick,
	domain.FamilyAmerican,
	domain.FamilyStNicholas,
	domain.FamilyWA1440,
	domain.FamilyMetric1440,
	domain.FamilyWA900,
	domain.FamilyWA720,
	domain.FamilyMetric720,
	domain.FamilyMetricLong,
	domain.FamilyMetricShort,
}

// rank is a sort key: the family slot, then a sub-rank inside the 720 slot.
type rank struct {
	slot int
	sub  int
}

func familyRank(r domain.Round) rank {
	// Within the 720 slot: plain wa720, plain metric720, wa720 50m compound,
	// then metric 80cm.
	switch r.Family {
	case domain.FamilyWA720, domain.FamilyMetric720:
		slot := slices.Index(familyOrder, domain.FamilyWA720)
		sub := 0
		if r.Family == domain.FamilyMetric720 {
			sub = 1
		}
		if strings.Contains(r.Codename, "wa720_50_c") || strings.Contains(r.Codename, "metric_80") {
			sub += 2
		}
		return rank{slot: slot, sub: sub}
	}

	if i := slices.Index(familyOrder, r.Family); i >= 0 {
		// metric720 holds no slot of its own, so shift later families up.
		if i > slices.Index(familyOrder, domain.FamilyMetric720) {
			i--
		}
		return rank{slot: i}
	}
	return rank{slot: len(familyOrder)}
}

// OrderByFamily returns rounds stable-sorted into the canonical family
// sequence. Rounds keep their input order within a family. Rounds of the
// "other" family, or of an unrecognised family, are placed last.
func OrderByFamily(rounds []domain.Round) []domain.Round {
	sorted := slices.Clone(rounds)
	slices.SortStableFunc(sorted, func(a, b domain.Round) int {
		ra, rb := familyRank(a), familyRank(b)
		if ra.slot != rb.slot {
			return ra.slot - rb.slot
		}
		return ra.sub - rb.sub
	})
	return sorted
}

// OrderCodenames is OrderByFamily over codenames, looking each family up
// with familyOf. Unknown codenames sort last.
func OrderCodenames(codenames []string, familyOf func(string) (domain.Family, bool)) []string {
	rounds := make([]domain.Round, len(codenames))
	for i, c := range codenames {
		fam, ok := familyOf(c)
		if !ok {
			fam = domain.FamilyOther
		}
		rounds[i] = domain.Round{Codename: c, Family: fam}
	}

	ordered := OrderByFamily(rounds)
	out := make([]string, len(ordered))
	for i, r := range ordered {
		out[i] = r.Codename
	}
	return out
}
