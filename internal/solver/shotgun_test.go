package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShotgunSolver(t *testing.T) {
	m := classicMatrix(t)

	tests := []struct {
		name    string
		model   *DistanceModel
		cfg     Config
		wantErr bool
	}{
		{
			name:  "valid configuration",
			model: m,
			cfg:   Config{Iterations: 100, Restarts: 5, Seed: 42},
		},
		{
			name:  "zero iterations is allowed",
			model: m,
			cfg:   Config{Iterations: 0, Restarts: 1},
		},
		{
			name:    "nil model",
			model:   nil,
			cfg:     Config{Iterations: 100, Restarts: 5},
			wantErr: true,
		},
		{
			name:    "zero restarts",
			model:   m,
			cfg:     Config{Iterations: 100, Restarts: 0},
			wantErr: true,
		},
		{
			name:    "negative iterations",
			model:   m,
			cfg:     Config{Iterations: -1, Restarts: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShotgunSolver(tt.model, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadConfig)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.Nil(t, s.BestSolution(), "no solution before the first restart finishes")
		})
	}
}

func TestShotgunFindsClassicOptimum(t *testing.T) {
	m := classicMatrix(t)

	s, err := NewShotgunSolver(m, Config{Iterations: 100, Restarts: 5, Seed: 42, Workers: 1})
	require.NoError(t, err)

	result, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Best)

	assert.InDelta(t, 80, result.Best.Length, 1e-9, "must reach the known optimum")
	assertPermutation(t, result.Best.Tour, 4)
	assert.Equal(t, 0, result.Best.Tour[0])
	assert.Equal(t, 5, result.Restarts)
	assert.Len(t, result.Runs, 5)
	for i, run := range result.Runs {
		assert.Equal(t, i, run.Run)
		assert.True(t, run.Converged, "4 nodes converge within 100 passes")
	}
}

func TestShotgunSingleNode(t *testing.T) {
	m, err := NewDistanceModel([][]float64{{0}})
	require.NoError(t, err)

	for _, workers := range []int{1, 4} {
		s, err := NewShotgunSolver(m, Config{Iterations: 100, Restarts: 7, Seed: 9, Workers: workers})
		require.NoError(t, err)

		result, err := s.Solve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Tour{0}, result.Best.Tour)
		assert.Zero(t, result.Best.Length)
	}
}

// TestShotgunParallelMatchesSequential checks that scheduling does not
// change the outcome: per-restart random streams are derived from the run
// index, and the merge tie-breaks on run order.
func TestShotgunParallelMatchesSequential(t *testing.T) {
	m := randomModel(t, 30, 21)
	base := Config{Iterations: 200, Restarts: 16, Seed: 1234}

	seqCfg := base
	seqCfg.Workers = 1
	seq, err := NewShotgunSolver(m, seqCfg)
	require.NoError(t, err)
	seqResult, err := seq.Solve(context.Background())
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 8} {
		parCfg := base
		parCfg.Workers = workers
		par, err := NewShotgunSolver(m, parCfg)
		require.NoError(t, err)
		parResult, err := par.Solve(context.Background())
		require.NoError(t, err)

		assert.Equal(t, seqResult.Best.Length, parResult.Best.Length,
			"%d workers changed the best length", workers)
		assert.Equal(t, seqResult.Best.Tour, parResult.Best.Tour,
			"%d workers changed the winning tour", workers)
		assert.Equal(t, seqResult.Runs, parResult.Runs)
	}
}

func TestShotgunReproducible(t *testing.T) {
	m := randomModel(t, 20, 8)
	cfg := Config{Iterations: 100, Restarts: 8, Seed: 99, Workers: 4}

	var lengths []float64
	for i := 0; i < 3; i++ {
		s, err := NewShotgunSolver(m, cfg)
		require.NoError(t, err)
		result, err := s.Solve(context.Background())
		require.NoError(t, err)
		lengths = append(lengths, result.Best.Length)
	}

	assert.Equal(t, lengths[0], lengths[1])
	assert.Equal(t, lengths[1], lengths[2])
}

// TestShotgunMoreRestartsNeverWorse: with a shared seed, restart run 0 is
// identical in both configurations, so the larger shotgun can only match
// or beat the single run.
func TestShotgunMoreRestartsNeverWorse(t *testing.T) {
	m := randomModel(t, 25, 13)

	single, err := NewShotgunSolver(m, Config{Iterations: 300, Restarts: 1, Seed: 7, Workers: 1})
	require.NoError(t, err)
	singleResult, err := single.Solve(context.Background())
	require.NoError(t, err)

	many, err := NewShotgunSolver(m, Config{Iterations: 300, Restarts: 10, Seed: 7, Workers: 1})
	require.NoError(t, err)
	manyResult, err := many.Solve(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, manyResult.Best.Length, singleResult.Best.Length)
	assert.Equal(t, singleResult.Runs[0], manyResult.Runs[0],
		"run 0 must be the same hill climb in both configurations")
}

func TestShotgunTieBreakByRunOrder(t *testing.T) {
	// All tours of a uniform matrix have equal length, so every restart
	// ties. The winner must be run 0 regardless of worker count.
	m, err := NewDistanceModel([][]float64{
		{0, 1, 1, 1},
		{1, 0, 1, 1},
		{1, 1, 0, 1},
		{1, 1, 1, 0},
	})
	require.NoError(t, err)

	want := NewRandomTour(4, runRNG(5, 0))
	for _, workers := range []int{1, 3} {
		s, err := NewShotgunSolver(m, Config{Iterations: 50, Restarts: 6, Seed: 5, Workers: workers})
		require.NoError(t, err)
		result, err := s.Solve(context.Background())
		require.NoError(t, err)

		assert.InDelta(t, 4, result.Best.Length, 1e-9)
		assert.Equal(t, want, result.Best.Tour, "ties must keep the first run's tour")
	}
}

func TestShotgunCancellation(t *testing.T) {
	m := randomModel(t, 40, 2)

	s, err := NewShotgunSolver(m, Config{Iterations: 10000, Restarts: 1000, Seed: 1, Workers: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Solve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

// TestShotgunStopFromAnotherGoroutine: Stop is part of the Solver
// interface and may race with a running Solve; it must abort the run
// without tripping the race detector.
func TestShotgunStopFromAnotherGoroutine(t *testing.T) {
	m := randomModel(t, 40, 6)

	s, err := NewShotgunSolver(m, Config{Iterations: 100000, Restarts: 1000000, Seed: 1, Workers: 1})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Solve(context.Background())
		done <- err
	}()

	// Wait for the first restart to finish so Solve is demonstrably
	// mid-run, then stop it from this goroutine.
	deadline := time.Now().Add(10 * time.Second)
	for s.BestSolution() == nil {
		if time.Now().After(deadline) {
			t.Fatal("solver never produced a first solution")
		}
		time.Sleep(time.Millisecond)
	}
	s.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("Solve did not return after Stop")
	}
}

func TestShotgunBestSolutionIsACopy(t *testing.T) {
	m := classicMatrix(t)

	s, err := NewShotgunSolver(m, Config{Iterations: 100, Restarts: 3, Seed: 42, Workers: 1})
	require.NoError(t, err)
	result, err := s.Solve(context.Background())
	require.NoError(t, err)

	// Mutating the returned tour must not corrupt the stored best.
	result.Best.Tour[1], result.Best.Tour[2] = result.Best.Tour[2], result.Best.Tour[1]
	again := s.BestSolution()
	assert.InDelta(t, 80, again.Length, 1e-9)
	assert.InDelta(t, TourLength(m, again.Tour), again.Length, 1e-9)
}
