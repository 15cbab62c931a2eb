package domain

// Handicap domain bounds. Handicap 0 is the most skilled archer.
const (
	MinHandicap = 0
	MaxHandicap = 150
	// HandicapRows is the number of rows in every handicap table.
	HandicapRows = MaxHandicap - MinHandicap + 1

	// AllowanceReference is the outdoor maximum that allowance tables are
	// expressed against.
	AllowanceReference = 1440
)

// TableMode selects how handicap table cells are expressed.
type TableMode int

// Handicap table modes.
const (
	// ModeAchieved cells hold the score achieved at the row's handicap.
	ModeAchieved TableMode = iota
	// ModeAllowance cells hold AllowanceReference minus the achieved score.
	ModeAllowance
)

// String returns the mode name used in logs and metrics labels.
func (m TableMode) String() string {
	if m == ModeAllowance {
		return "allowance"
	}
	return "achieved"
}

// Cell is a single handicap table value: either a score or a marker that the
// value repeats the row below and should not be displayed.
// The zero Cell is a score of 0.
type Cell struct {
	value      int
	suppressed bool
}

// Score returns a cell holding v.
func Score(v int) Cell { return Cell{value: v} }

// Suppressed returns a cell whose value duplicates the next row.
func Suppressed() Cell { return Cell{suppressed: true} }

// Value returns the cell score and true, or 0 and false when suppressed.
func (c Cell) Value() (int, bool) {
	if c.suppressed {
		return 0, false
	}
	return c.value, true
}

// IsSuppressed reports whether the cell is hidden on display.
func (c Cell) IsSuppressed() bool { return c.suppressed }

// HandicapRow is one handicap value and its cell per requested round.
type HandicapRow struct {
	Handicap int
	Cells    []Cell
}

// HandicapTable maps handicap values to round scores, one column per round.
type HandicapTable struct {
	// Rounds are the column labels in request order.
	Rounds []string
	// Mode records whether cells are achieved scores or allowances.
	Mode TableMode
	// Rows holds HandicapRows entries ordered by ascending handicap.
	Rows []HandicapRow
}

// Column returns the cells for round column col, top to bottom.
func (t *HandicapTable) Column(col int) []Cell {
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row.Cells[col]
	}
	return cells
}

// SuppressedCount returns how many cells in column col are suppressed.
func (t *HandicapTable) SuppressedCount(col int) int {
	n := 0
	for _, row := range t.Rows {
		if row.Cells[col].IsSuppressed() {
			n++
		}
	}
	return n
}

// Matrix flattens the table to a numeric grid with the handicap in column 0
// and sentinel in place of suppressed cells. It exists for presentation
// layers that cannot carry the Cell variant.
func (t *HandicapTable) Matrix(sentinel int) [][]int {
	out := make([][]int, len(t.Rows))
	for i, row := range t.Rows {
		line := make([]int, len(row.Cells)+1)
		line[0] = row.Handicap
		for j, c := range row.Cells {
			if v, ok := c.Value(); ok {
				line[j+1] = v
			} else {
				line[j+1] = sentinel
			}
		}
		out[i] = line
	}
	return out
}
