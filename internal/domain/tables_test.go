package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	zero := Score(0)
	v, ok := zero.Value()
	assert.True(t, ok, "a genuine zero is a value")
	assert.Equal(t, 0, v)
	assert.False(t, zero.IsSuppressed())

	s := Suppressed()
	v, ok = s.Value()
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, s.IsSuppressed())

	assert.Equal(t, Score(0), Cell{}, "the zero Cell is a score of 0")
}

func TestTableMode_String(t *testing.T) {
	assert.Equal(t, "achieved", ModeAchieved.String())
	assert.Equal(t, "allowance", ModeAllowance.String())
}

func TestHandicapTable_Accessors(t *testing.T) {
	table := &HandicapTable{
		Rounds: []string{"York", "Portsmouth"},
		Rows: []HandicapRow{
			{Handicap: 0, Cells: []Cell{Score(1200), Suppressed()}},
			{Handicap: 1, Cells: []Cell{Suppressed(), Score(590)}},
			{Handicap: 2, Cells: []Cell{Score(1150), Score(0)}},
		},
	}

	assert.Equal(t, []Cell{Suppressed(), Score(590), Score(0)}, table.Column(1))
	assert.Equal(t, 1, table.SuppressedCount(0))
	assert.Equal(t, 1, table.SuppressedCount(1))

	assert.Equal(t, [][]int{
		{0, 1200, -9999},
		{1, -9999, 590},
		{2, 1150, 0},
	}, table.Matrix(-9999))
}

func TestClassificationTable_Grid(t *testing.T) {
	table := &ClassificationTable{
		Tiers: []string{"B3", "B2", "B1"},
		Rows: []ClassificationRow{
			{Round: "York", Thresholds: []int{600, 700, 800}},
			{Round: "Hereford", Thresholds: []int{650, 750, 850}},
		},
	}

	assert.Equal(t, []string{"Round", "B3", "B2", "B1"}, table.Header())
	assert.Equal(t, [][]string{
		{"York", "600", "700", "800"},
		{"Hereford", "650", "750", "850"},
	}, table.Grid())

	assert.Empty(t, (&ClassificationTable{}).Grid())
}
