package domain

import "strconv"

// ClassificationRow is the per-tier minimum score for one round.
type ClassificationRow struct {
	// Round is the display name of the round.
	Round string
	// Thresholds are aligned with ClassificationTable.Tiers.
	Thresholds []int
}

// ClassificationTable lists the score needed for each classification tier on
// each round, for one archer selection and discipline.
// Tiers are ordered lowest first so the easiest tier is leftmost.
type ClassificationTable struct {
	Selection  Selection
	Discipline Discipline
	Tiers      []string
	Rows       []ClassificationRow
}

// Grid renders the table as strings: the round name first, then one
// threshold per tier.
func (t *ClassificationTable) Grid() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		line := make([]string, 0, len(row.Thresholds)+1)
		line = append(line, row.Round)
		for _, v := range row.Thresholds {
			line = append(line, strconv.Itoa(v))
		}
		out[i] = line
	}
	return out
}

// Header returns the column labels matching Grid.
func (t *ClassificationTable) Header() []string {
	return append([]string{"Round"}, t.Tiers...)
}
