package solver

import (
	"math/rand"
	"testing"
)

// randomModel builds a symmetric random instance with zero diagonal,
// deterministic in seed.
func randomModel(t *testing.T, n int, seed int64) *DistanceModel {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 1 + 99*rng.Float64()
			rows[i][j] = d
			rows[j][i] = d
		}
	}

	m, err := NewDistanceModel(rows)
	if err != nil {
		t.Fatalf("failed to build random model: %v", err)
	}
	return m
}
