// Package domain holds the value types shared by the table engine: rounds,
// archer selections, disciplines and the two table kinds it produces.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold applies Unicode case folding. A cases.Caser is stateful and must not
// be shared between goroutines, so one is built per call.
func fold(s string) string { return cases.Fold().String(s) }

// compoundMarker appears in every codename that uses compound scoring.
const compoundMarker = "compound"

// Family groups rounds that are displayed together in classification tables.
type Family string

// Round families in canonical display order.
const (
	FamilyYorkHerefordBristol   Family = "york_hereford_bristol"
	FamilyStGeorgeAlbionWindsor Family = "stgeorge_albion_windsor"
	FamilyNational              Family = "national"
	FamilyWestern               Family = "western"
	FamilyWarwick               Family = "warwick"
	FamilyAmerican              Family = "american"
	FamilyStNicholas            Family = "stnicholas"
	FamilyWA1440                Family = "wa1440"
	FamilyMetric1440            Family = "metric1440"
	FamilyWA900                 Family = "wa900"
	FamilyWA720                 Family = "wa720"
	FamilyMetric720             Family = "metric720"
	FamilyMetricLong            Family = "metriclong"
	FamilyMetricShort           Family = "metricshort"
	FamilyOther                 Family = "other"
)

// Location is where a round is shot.
type Location string

// Supported round locations.
const (
	LocationOutdoor Location = "outdoor"
	LocationIndoor  Location = "indoor"
	LocationField   Location = "field"
)

// Round is an immutable scoring format identified by its codename.
// Rounds are sourced from a registry; the engine only reads and re-keys them.
type Round struct {
	// Codename is the canonical identifier, e.g. "wa1440_90".
	Codename string `yaml:"codename" validate:"required"`
	// Name is the human-readable display name.
	Name string `yaml:"name" validate:"required"`
	// Family tags the round for canonical ordering.
	Family Family `yaml:"family"`
	// Location is indoor, outdoor or field.
	Location Location `yaml:"location" validate:"required,oneof=indoor outdoor field"`
	// Body is the governing body that defines the round (AGB, WA, ...).
	Body string `yaml:"body"`
	// MaxScore is the highest achievable score; zero when unknown.
	MaxScore int `yaml:"max_score" validate:"min=0"`
}

// Compound reports whether the round is a compound-scoring variant.
func (r Round) Compound() bool { return IsCompoundCodename(r.Codename) }

// IsCompoundCodename reports whether codename carries the compound marker.
func IsCompoundCodename(codename string) bool {
	return strings.Contains(codename, compoundMarker)
}

// Discipline selects which classification scheme applies.
type Discipline int

// Disciplines. Field is recognised but has no classification tables.
const (
	DisciplineOutdoor Discipline = iota + 1
	DisciplineIndoor
	DisciplineField
)

// String returns the lowercase discipline name.
func (d Discipline) String() string {
	switch d {
	case DisciplineOutdoor:
		return "outdoor"
	case DisciplineIndoor:
		return "indoor"
	case DisciplineField:
		return "field"
	default:
		return "unknown"
	}
}

// ParseDiscipline maps a case-insensitive name to a Discipline.
func ParseDiscipline(s string) (Discipline, error) {
	switch fold(strings.TrimSpace(s)) {
	case "outdoor":
		return DisciplineOutdoor, nil
	case "indoor":
		return DisciplineIndoor, nil
	case "field":
		return DisciplineField, nil
	}
	return 0, NewSelectionError("discipline", s)
}

// MarshalText encodes the discipline by name.
func (d Discipline) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a discipline name, so YAML documents and
// environment variables can say "indoor".
func (d *Discipline) UnmarshalText(text []byte) error {
	parsed, err := ParseDiscipline(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ScoringSystem names the handicap scheme passed to scorers.
type ScoringSystem string

// SystemAGB is the Archery GB handicap scheme.
const SystemAGB ScoringSystem = "AGB"

// Selection is the archer category a table is produced for.
type Selection struct {
	Bowstyle string `yaml:"bowstyle" validate:"required,bowstyle"`
	Gender   string `yaml:"gender" validate:"required,gender"`
	Age      string `yaml:"age" validate:"required,agegroup"`
}

// Normalized returns a copy with case folded and, for Age, spaces removed so
// "Under 18" and "under18" compare equal.
func (s Selection) Normalized() Selection {
	return Selection{
		Bowstyle: NormalizeBowstyle(s.Bowstyle),
		Gender:   NormalizeGender(s.Gender),
		Age:      NormalizeAge(s.Age),
	}
}

// NormalizeBowstyle folds case and trims surrounding space.
func NormalizeBowstyle(b string) string { return fold(strings.TrimSpace(b)) }

// NormalizeGender folds case and trims surrounding space.
func NormalizeGender(g string) string { return fold(strings.TrimSpace(g)) }

// NormalizeAge folds case and removes all spaces.
func NormalizeAge(a string) string {
	return strings.ReplaceAll(fold(a), " ", "")
}

// Known selection values after normalization.
var (
	Bowstyles = []string{"compound", "recurve", "barebow", "longbow", "traditional", "flatbow"}
	Genders   = []string{"male", "female"}
	AgeGroups = []string{"adult", "50+", "under21", "under18", "under16", "under15", "under14", "under12"}
)

// Bowstyle, gender and age values referenced by taxonomy rules.
const (
	BowstyleCompound = "compound"
	BowstyleBarebow  = "barebow"
	GenderMale       = "male"
	GenderFemale     = "female"
	AgeAdult         = "adult"
	AgeFiftyPlus     = "50+"
)
