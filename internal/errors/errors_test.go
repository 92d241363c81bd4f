package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New("boom"),
			want: "boom",
		},
		{
			name: "with operation and component",
			err:  New("boom").WithOperation("read_matrix").WithComponent("matrixio"),
			want: "boom: operation=read_matrix, component=matrixio",
		},
		{
			name: "wrapped",
			err:  Wrap(stderrors.New("inner"), "outer"),
			want: "outer: inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	sentinel := stderrors.New("not square")

	err := Wrap(sentinel, "reading matrix").WithComponent("matrixio")
	require.Error(t, err)
	assert.True(t, Is(err, sentinel), "sentinel must survive wrapping")
	assert.Equal(t, sentinel, Unwrap(err))

	var target *Error
	assert.True(t, As(err, &target))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestStackTraceCaptured(t *testing.T) {
	err := New("with stack")
	assert.NotEmpty(t, err.StackTrace())
}
