package taxonomy

import "github.com/ahrav/go-quiver/internal/domain"

// compoundCodenames maps indoor rounds to their compound-scoring variant.
// No value is also a key, so the mapping is idempotent.
var compoundCodenames = map[string]string{
	"bray_i":            "bray_i_compound",
	"bray_i_triple":     "bray_i_compound_triple",
	"bray_ii":           "bray_ii_compound",
	"bray_ii_triple":    "bray_ii_compound_triple",
	"stafford":          "stafford_compound",
	"portsmouth":        "portsmouth_compound",
	"portsmouth_triple": "portsmouth_compound_triple",
	"vegas":             "vegas_compound",
	"wa18":              "wa18_compound",
	"wa18_triple":       "wa18_compound_triple",
	"wa25":              "wa25_compound",
	"wa25_triple":       "wa25_compound_triple",
}

// ToCompound returns the compound-scoring codename for codename, or
// codename unchanged when it has no compound variant.
func ToCompound(codename string) string {
	if mapped, ok := compoundCodenames[codename]; ok {
		return mapped
	}
	return codename
}

// ToCompoundAll applies ToCompound to each codename and returns a new slice
// of the same length.
func ToCompoundAll(codenames []string) []string {
	out := make([]string, len(codenames))
	for i, c := range codenames {
		out[i] = ToCompound(c)
	}
	return out
}

// StripCompoundVariants returns the display names of the rounds that are
// not compound-scoring variants, in input order.
func StripCompoundVariants(rounds []domain.Round) []string {
	names := make([]string, 0, len(rounds))
	for _, r := range rounds {
		if r.Compound() {
			continue
		}
		names = append(names, r.Name)
	}
	return names
}

// WithoutCompoundVariants is StripCompoundVariants keeping whole rounds.
func WithoutCompoundVariants(rounds []domain.Round) []domain.Round {
	out := make([]domain.Round, 0, len(rounds))
	for _, r := range rounds {
		if !r.Compound() {
			out = append(out, r)
		}
	}
	return out
}
