// Package matrixio translates between text streams and the solver's
// in-memory contracts: a comma-separated distance matrix in, a parameter
// line in, and the best tour out. All validation happens here, before the
// engine starts; the engine itself never fails on validated input.
package matrixio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/copyleftdev/ROUTR/internal/solver"
)

// Error taxonomy for the input adapters. Everything is detected up front;
// there is no partial computation to clean up after.
var (
	// ErrMalformedInput is returned when a matrix cell is not numeric.
	ErrMalformedInput = errors.New("malformed matrix input")

	// ErrShape is returned when the matrix is empty or not square.
	ErrShape = errors.New("matrix is empty or not square")

	// ErrConfig is returned when the parameter line is missing, not
	// integral, or violates the solver's constraints.
	ErrConfig = errors.New("invalid parameter line")
)

// ReadMatrix reads comma-separated numeric rows from r until EOF and
// builds a validated DistanceModel. Blank lines are skipped so a trailing
// newline does not produce a phantom row.
func ReadMatrix(r io.Reader) (*solver.DistanceModel, error) {
	var rows [][]float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cells := strings.Split(line, ",")
		row := make([]float64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %d: %q is not a number",
					ErrMalformedInput, len(rows)+1, i+1, strings.TrimSpace(cell))
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	model, err := solver.NewDistanceModel(rows)
	if err != nil {
		// Map the engine's constructor sentinels onto the adapter taxonomy.
		switch {
		case errors.Is(err, solver.ErrEmptyMatrix), errors.Is(err, solver.ErrNotSquare):
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}
	return model, nil
}

// ParseParams parses a parameter line of three space-separated integers:
// iteration cap, restart count and seed, as in "100 5 42".
func ParseParams(line string) (solver.Config, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return solver.Config{}, fmt.Errorf("%w: got %d fields, want 3 (iterations restarts seed)",
			ErrConfig, len(fields))
	}

	iterations, err := strconv.Atoi(fields[0])
	if err != nil {
		return solver.Config{}, fmt.Errorf("%w: iterations %q is not an integer", ErrConfig, fields[0])
	}
	restarts, err := strconv.Atoi(fields[1])
	if err != nil {
		return solver.Config{}, fmt.Errorf("%w: restarts %q is not an integer", ErrConfig, fields[1])
	}
	seed, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return solver.Config{}, fmt.Errorf("%w: seed %q is not an unsigned integer", ErrConfig, fields[2])
	}

	if iterations < 0 {
		return solver.Config{}, fmt.Errorf("%w: iterations must be >= 0, got %d", ErrConfig, iterations)
	}
	if restarts < 1 {
		return solver.Config{}, fmt.Errorf("%w: restarts must be >= 1, got %d", ErrConfig, restarts)
	}

	return solver.Config{
		Iterations: iterations,
		Restarts:   restarts,
		Seed:       seed,
	}, nil
}

// ReadProblem reads one parameter line followed by the matrix rows, the
// batch input format of the command-line solver.
func ReadProblem(r io.Reader) (*solver.DistanceModel, solver.Config, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, solver.Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	cfg, perr := ParseParams(line)
	if perr != nil {
		return nil, solver.Config{}, perr
	}

	model, merr := ReadMatrix(br)
	if merr != nil {
		return nil, solver.Config{}, merr
	}
	return model, cfg, nil
}

// WriteSolution renders the tour as space-separated node indices on one
// line, followed by the tour length on the next.
func WriteSolution(w io.Writer, sol *solver.Solution) error {
	parts := make([]string, len(sol.Tour))
	for i, node := range sol.Tour {
		parts[i] = strconv.Itoa(node)
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, strconv.FormatFloat(sol.Length, 'g', -1, 64))
	return err
}
