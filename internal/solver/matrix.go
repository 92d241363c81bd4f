package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DistanceModel is an immutable square matrix of pairwise travel costs.
// Cell (i, j) holds the cost of travelling directly from node i to node j;
// the matrix does not have to be symmetric. After construction the model is
// never mutated, so it is safe for concurrent reads without locking.
type DistanceModel struct {
	n     int
	costs *mat.Dense
}

// NewDistanceModel builds a DistanceModel from raw matrix rows.
// It rejects empty and non-square input and any cell that is NaN,
// infinite or negative.
func NewDistanceModel(rows [][]float64) (*DistanceModel, error) {
	n := len(rows)
	if n == 0 {
		return nil, newError(ErrEmptyMatrix, "new_distance_model", "no rows")
	}

	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, newError(ErrNotSquare, "new_distance_model",
				"row %d has %d cells, want %d", i, len(row), n)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
				return nil, newError(ErrBadCost, "new_distance_model",
					"cell (%d,%d) = %v", i, j, c)
			}
		}
		data = append(data, row...)
	}

	return &DistanceModel{
		n:     n,
		costs: mat.NewDense(n, n, data),
	}, nil
}

// Len returns the number of nodes.
func (m *DistanceModel) Len() int {
	return m.n
}

// Cost returns the cost of travelling directly from node i to node j.
// Indices must be in [0, Len()); callers uphold this via the Tour invariant.
func (m *DistanceModel) Cost(i, j int) float64 {
	return m.costs.At(i, j)
}
