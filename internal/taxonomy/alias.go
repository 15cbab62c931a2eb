package taxonomy

import "github.com/ahrav/go-quiver/internal/domain"

// ResolveAlias returns the round an archer in sel should shoot in place of
// codename. At most one substitution applies; codenames without an alias
// are returned unchanged. Resolving a resolved codename is a no-op.
func ResolveAlias(codename string, sel domain.Selection) string {
	sel = sel.Normalized()
	compound := sel.Bowstyle == domain.BowstyleCompound
	barebow := sel.Bowstyle == domain.BowstyleBarebow

	switch {
	case codename == "hereford" && sel.Gender == domain.GenderMale:
		return "bristol_i"
	case codename == "bristol_i" && sel.Gender == domain.GenderFemale:
		return "hereford"

	case codename == "metric_i":
		return "wa1440_70"
	case codename == "metric_ii":
		return "wa1440_60"

	case codename == "wa720_50_c" && !compound:
		return "metric_80_50"
	case codename == "metric_80_50" && compound:
		return "wa720_50_c"

	case codename == "wa720_50_b" && !barebow:
		return "metric_122_50"
	case codename == "metric_122_50" && barebow:
		return "wa720_50_b"
	}
	return codename
}
