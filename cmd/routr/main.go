// Command routr is the batch front end to the shotgun solver: it reads a
// parameter line and a comma-separated distance matrix, runs the solver and
// prints the best tour with its length.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/copyleftdev/ROUTR/internal/errors"
	"github.com/copyleftdev/ROUTR/internal/matrixio"
	"github.com/copyleftdev/ROUTR/internal/solver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input   string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "routr",
		Short: "Approximate TSP solver using shotgun 2-opt hill climbing",
		Long: `routr reads a problem from stdin (or --input) and prints the best
tour found followed by its length.

Input format:
  line 1:  iterations restarts seed
  rest:    one comma-separated matrix row per line`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return solve(cmd, in, workers)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read the problem from a file instead of stdin")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines (0 = one per CPU, 1 = sequential)")

	return cmd
}

func solve(cmd *cobra.Command, in io.Reader, workers int) error {
	model, cfg, err := matrixio.ReadProblem(in)
	if err != nil {
		return apperrors.Wrap(err, "reading problem").WithOperation("read_problem")
	}
	cfg.Workers = workers

	shotgun, err := solver.NewShotgunSolver(model, cfg)
	if err != nil {
		return apperrors.Wrap(err, "configuring solver").WithOperation("configure")
	}

	result, err := shotgun.Solve(cmd.Context())
	if err != nil {
		return apperrors.Wrap(err, "solving").WithOperation("solve")
	}

	return matrixio.WriteSolution(cmd.OutOrStdout(), result.Best)
}
