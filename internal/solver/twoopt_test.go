package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImprovePassFindsFirstImprovement(t *testing.T) {
	m := classicMatrix(t)

	// 0-2-1-3 has length 15+35+25+20 = 95; reversing [1..2] yields 0-1-2-3
	// (also 95, rejected), and the scan then reaches a strictly shorter
	// neighbor. First-improvement means exactly one move is applied.
	tour := Tour{0, 2, 1, 3}
	start := TourLength(m, tour)

	length, improved := improvePass(m, tour, start)
	require.True(t, improved)
	assert.Less(t, length, start)
	assert.InDelta(t, TourLength(m, tour), length, 1e-9,
		"returned length must match the mutated tour")
	assertPermutation(t, tour, 4)
}

func TestImprovePassAtLocalOptimum(t *testing.T) {
	m := classicMatrix(t)

	tour := Tour{0, 1, 3, 2} // the optimum; nothing improves it
	before := tour.Clone()
	length, improved := improvePass(m, tour, 80)

	assert.False(t, improved)
	assert.InDelta(t, 80, length, 1e-9)
	assert.Equal(t, before, tour, "a failed scan must leave the tour untouched")
}

func TestImprovePassEmptyNeighborhood(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		tour Tour
	}{
		{
			name: "single node",
			rows: [][]float64{{0}},
			tour: Tour{0},
		},
		{
			name: "two nodes",
			rows: [][]float64{{0, 7}, {7, 0}},
			tour: Tour{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewDistanceModel(tt.rows)
			require.NoError(t, err)

			length := TourLength(m, tt.tour)
			got, improved := improvePass(m, tt.tour, length)
			assert.False(t, improved)
			assert.Equal(t, length, got)
		})
	}
}

// TestConvergedTourIsLocalOptimum verifies that when a hill climb stops
// before its iteration cap, no 2-opt move at all improves the tour.
func TestConvergedTourIsLocalOptimum(t *testing.T) {
	m := randomModel(t, 12, 7)

	tour, report := hillClimb(m, 1000, runRNG(7, 0))
	require.True(t, report.Converged)
	assertPermutation(t, tour, 12)

	for i := 1; i <= len(tour)-2; i++ {
		for j := i + 1; j <= len(tour)-1; j++ {
			candidate := tour.Clone()
			candidate.Reverse(i, j)
			assert.GreaterOrEqual(t, TourLength(m, candidate), report.Length,
				"move (%d,%d) must not beat a converged tour", i, j)
		}
	}
}
