package matrixio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/ROUTR/internal/solver"
)

func TestReadMatrix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantN   int
		wantErr error
	}{
		{
			name:  "valid 2x2",
			input: "0,1\n1,0\n",
			wantN: 2,
		},
		{
			name:  "valid 1x1",
			input: "0\n",
			wantN: 1,
		},
		{
			name:  "whitespace and trailing newline tolerated",
			input: " 0 , 10 \n 10 , 0 \n\n",
			wantN: 2,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrShape,
		},
		{
			name:    "non-square rows 3,3,2",
			input:   "0,1,2\n1,0,3\n2,3\n",
			wantErr: ErrShape,
		},
		{
			name:    "non-numeric cell",
			input:   "0,1\nx,0\n",
			wantErr: ErrMalformedInput,
		},
		{
			name:    "negative cost",
			input:   "0,-1\n1,0\n",
			wantErr: ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadMatrix(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, m.Len())
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    solver.Config
		wantErr bool
	}{
		{
			name: "valid",
			line: "100 5 42",
			want: solver.Config{Iterations: 100, Restarts: 5, Seed: 42},
		},
		{
			name: "extra whitespace",
			line: "  100   5   42  \n",
			want: solver.Config{Iterations: 100, Restarts: 5, Seed: 42},
		},
		{
			name:    "too few fields",
			line:    "100 5",
			wantErr: true,
		},
		{
			name:    "non-integer iterations",
			line:    "abc 5 42",
			wantErr: true,
		},
		{
			name:    "negative iterations",
			line:    "-1 5 42",
			wantErr: true,
		},
		{
			name:    "zero restarts",
			line:    "100 0 42",
			wantErr: true,
		},
		{
			name:    "negative seed",
			line:    "100 5 -3",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseParams(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestReadProblem(t *testing.T) {
	input := "100 5 42\n0,10,15,20\n10,0,35,25\n15,35,0,30\n20,25,30,0\n"

	model, cfg, err := ReadProblem(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, model.Len())
	assert.Equal(t, solver.Config{Iterations: 100, Restarts: 5, Seed: 42}, cfg)
}

func TestReadProblemRejectsBeforeSolving(t *testing.T) {
	// A broken matrix must surface as an adapter error; the solver is
	// never constructed.
	input := "100 5 42\n0,1,2\n1,0,3\n2,3\n"

	_, _, err := ReadProblem(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShape)
}

func TestWriteSolution(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSolution(&buf, &solver.Solution{
		Tour:   solver.Tour{0, 1, 3, 2},
		Length: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, "0 1 3 2\n80\n", buf.String())
}

func TestWriteSolutionSingleNode(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSolution(&buf, &solver.Solution{Tour: solver.Tour{0}, Length: 0})
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n", buf.String())
}
