// Package solver implements the ROUTR tour optimization engine: shotgun
// hill climbing over the 2-opt neighborhood of a travelling salesman tour.
package solver

import (
	"context"
)

// Solver defines the interface for tour optimization algorithms
type Solver interface {
	// Solve runs the optimization process to completion
	Solve(ctx context.Context) (*Result, error)

	// BestSolution returns the best solution found so far
	BestSolution() *Solution

	// Stop gracefully stops the optimization process
	Stop()
}

// Config contains configuration for a solver run
type Config struct {
	// Maximum number of 2-opt passes per hill climb (0 means the initial
	// random tour is returned untouched)
	Iterations int

	// Number of independent hill-climb restarts, must be >= 1
	Restarts int

	// Base seed for reproducible randomness; each restart derives its own
	// stream from this value and the restart index
	Seed uint64

	// Number of worker goroutines; <= 0 selects runtime.NumCPU, 1 runs
	// the restarts sequentially
	Workers int
}

// Solution is a cyclic tour together with its total length.
type Solution struct {
	Tour   Tour
	Length float64
}

// RunReport summarizes a single hill-climb restart.
type RunReport struct {
	Run        int
	Length     float64
	Iterations int
	Converged  bool
}

// Result contains the outcome of a full shotgun run
type Result struct {
	// Best is the shortest tour found across all restarts
	Best *Solution

	// Runs holds one report per restart, indexed by restart number
	Runs []RunReport

	// Restarts is the number of hill climbs that were executed
	Restarts int
}
