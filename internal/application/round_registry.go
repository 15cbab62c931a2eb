package application

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.RoundRegistry = (*InMemoryRoundRegistry)(nil)

// DefaultSuggestionThreshold is the minimum normalized Levenshtein
// similarity for a display name to be offered as a suggestion.
const DefaultSuggestionThreshold = 0.6

// InMemoryRoundRegistry implements ports.RoundRegistry over rounds held in
// memory. Display-name lookup folds case and surrounding space.
type InMemoryRoundRegistry struct {
	// mu protects every field below.
	mu sync.RWMutex
	// order keeps codenames in registration order.
	order []string
	// byCodename maps codename to round.
	byCodename map[string]domain.Round
	// byName maps folded display name to codename.
	byName map[string]string
	// threshold is the similarity cut-off used by Suggest.
	threshold float64
}

// NewInMemoryRoundRegistry creates a registry holding rounds. Duplicate
// codenames or display names are rejected.
func NewInMemoryRoundRegistry(rounds ...domain.Round) (*InMemoryRoundRegistry, error) {
	r := &InMemoryRoundRegistry{
		byCodename: make(map[string]domain.Round, len(rounds)),
		byName:     make(map[string]string, len(rounds)),
		threshold:  DefaultSuggestionThreshold,
	}
	for _, round := range rounds {
		if err := r.Register(round); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds round to the registry.
func (r *InMemoryRoundRegistry) Register(round domain.Round) error {
	if round.Codename == "" {
		return fmt.Errorf("round codename cannot be empty: %w", domain.ErrEmptyValue)
	}
	if round.Name == "" {
		return fmt.Errorf("round %s has no display name: %w", round.Codename, domain.ErrEmptyValue)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCodename[round.Codename]; exists {
		return fmt.Errorf("duplicate round codename: %s", round.Codename)
	}
	key := r.fold(round.Name)
	if other, exists := r.byName[key]; exists {
		return fmt.Errorf("display name %q already used by %s", round.Name, other)
	}

	r.order = append(r.order, round.Codename)
	r.byCodename[round.Codename] = round
	r.byName[key] = round.Codename
	return nil
}

// Round returns the round registered under codename.
func (r *InMemoryRoundRegistry) Round(codename string) (domain.Round, error) {
	r.mu.RLock()
	round, ok := r.byCodename[codename]
	r.mu.RUnlock()

	if !ok {
		return domain.Round{}, domain.NewRoundError(codename, "")
	}
	return round, nil
}

// CodenameForName resolves a display name. Unknown names yield a
// *domain.RoundError carrying the closest registered name.
func (r *InMemoryRoundRegistry) CodenameForName(name string) (string, error) {
	r.mu.RLock()
	codename, ok := r.byName[r.fold(name)]
	r.mu.RUnlock()

	if !ok {
		return "", domain.NewRoundError(name, r.Suggest(name))
	}
	return codename, nil
}

// Rounds returns every registered round in registration order.
func (r *InMemoryRoundRegistry) Rounds() []domain.Round {
	return r.Filter(func(domain.Round) bool { return true })
}

// Filter returns the rounds for which keep returns true.
func (r *InMemoryRoundRegistry) Filter(keep func(domain.Round) bool) []domain.Round {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Round, 0, len(r.order))
	for _, codename := range r.order {
		if round := r.byCodename[codename]; keep(round) {
			out = append(out, round)
		}
	}
	return out
}

// Suggest returns the display name most similar to name. Ties keep the
// earlier registered round.
func (r *InMemoryRoundRegistry) Suggest(name string) string {
	target := r.fold(name)
	if target == "" {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	best, bestScore := "", -1.0
	for _, codename := range r.order {
		candidate := r.byCodename[codename].Name
		score := similarity(target, r.fold(candidate))
		if score >= r.threshold && score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

// Len returns the number of registered rounds.
func (r *InMemoryRoundRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// fold builds a Caser per call; Casers are not safe for concurrent use.
func (r *InMemoryRoundRegistry) fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// similarity is 1 - distance/maxLen over runes, in [0, 1].
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)
	return 1.0 - float64(distance)/float64(maxLen)
}
