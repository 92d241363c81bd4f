package solver

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// ShotgunSolver implements Solver with shotgun hill climbing: many
// independent 2-opt hill climbs from random starting tours, keeping the
// single best result. Restarts are independent by construction (each owns
// its random stream), so they can run sequentially or on a worker pool
// with identical output.
type ShotgunSolver struct {
	// Configuration
	cfg Config

	// Distance model, read-only for the lifetime of the solver
	model *DistanceModel

	// Best solution found; guarded by mu so a reader never observes a
	// half-updated (tour, length) pair
	mu      sync.Mutex
	best    *Solution
	bestRun int

	// For cancellation; written by Solve and read by Stop under mu
	cancel context.CancelFunc
}

// NewShotgunSolver creates a shotgun solver for the given model.
func NewShotgunSolver(model *DistanceModel, cfg Config) (*ShotgunSolver, error) {
	if model == nil {
		return nil, newError(ErrBadConfig, "new_shotgun_solver", "nil distance model")
	}
	if cfg.Restarts < 1 {
		return nil, newError(ErrBadConfig, "new_shotgun_solver",
			"restarts = %d, want >= 1", cfg.Restarts)
	}
	if cfg.Iterations < 0 {
		return nil, newError(ErrBadConfig, "new_shotgun_solver",
			"iterations = %d, want >= 0", cfg.Iterations)
	}

	return &ShotgunSolver{
		cfg:     cfg,
		model:   model,
		bestRun: -1,
	}, nil
}

// Solve runs all restarts and reduces them to the best solution found.
// The context is only consulted between restarts; a started hill climb
// always runs to completion.
func (s *ShotgunSolver) Solve(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > s.cfg.Restarts {
		workers = s.cfg.Restarts
	}

	runs := make([]RunReport, s.cfg.Restarts)

	var executed int
	var err error
	if workers == 1 {
		executed, err = s.solveSequential(ctx, runs)
	} else {
		executed, err = s.solveParallel(ctx, workers, runs)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Best:     s.BestSolution(),
		Runs:     runs,
		Restarts: executed,
	}, nil
}

// solveSequential executes the restarts in run order on the calling
// goroutine, promoting improvements as they appear.
func (s *ShotgunSolver) solveSequential(ctx context.Context, runs []RunReport) (int, error) {
	for run := 0; run < s.cfg.Restarts; run++ {
		select {
		case <-ctx.Done():
			return run, ctx.Err()
		default:
		}

		tour, report := s.runOne(run)
		runs[run] = report
		s.promote(tour, report.Length, run)
	}
	return s.cfg.Restarts, nil
}

// solveParallel distributes the restarts over a fixed pool of workers.
// Restart indices are claimed from a shared atomic counter; every worker
// keeps a local best and merges it into the shared best once, under the
// mutex, when it runs out of work. The merge is the only shared mutable
// state in the whole run.
func (s *ShotgunSolver) solveParallel(ctx context.Context, workers int, runs []RunReport) (int, error) {
	var next atomic.Int64
	var executed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var localTour Tour
			localLength := 0.0
			localRun := -1

			for {
				run := int(next.Add(1)) - 1
				if run >= s.cfg.Restarts {
					break
				}
				select {
				case <-ctx.Done():
					return
				default:
				}

				tour, report := s.runOne(run)
				runs[run] = report
				executed.Add(1)

				// Run indices claimed by one worker are increasing, so a
				// strict comparison keeps the lowest run index on ties.
				if localRun < 0 || report.Length < localLength {
					localTour = tour
					localLength = report.Length
					localRun = run
				}
			}

			if localRun >= 0 {
				s.promote(localTour, localLength, localRun)
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return int(executed.Load()), err
	}
	return int(executed.Load()), nil
}

// runOne executes restart number run with its own derived random stream.
func (s *ShotgunSolver) runOne(run int) (Tour, RunReport) {
	tour, report := hillClimb(s.model, s.cfg.Iterations, runRNG(s.cfg.Seed, run))
	report.Run = run
	return tour, report
}

// promote replaces the shared best when the candidate is strictly shorter,
// breaking ties by lowest run index so the result does not depend on which
// worker merges first. Compare and replace happen under one lock so no
// update is lost.
func (s *ShotgunSolver) promote(tour Tour, length float64, run int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.best != nil {
		if length > s.best.Length {
			return
		}
		if length == s.best.Length && run >= s.bestRun {
			return
		}
	}
	s.best = &Solution{Tour: tour.Clone(), Length: length}
	s.bestRun = run
}

// BestSolution returns a copy of the best solution found so far, or nil
// before any restart has finished. Copying keeps the stored best immune to
// caller mutation.
func (s *ShotgunSolver) BestSolution() *Solution {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.best == nil {
		return nil
	}
	return &Solution{Tour: s.best.Tour.Clone(), Length: s.best.Length}
}

// Stop aborts the run at the next restart boundary. Safe to call from any
// goroutine, including before or after Solve.
func (s *ShotgunSolver) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
