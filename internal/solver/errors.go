package solver

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by constructors. The engine itself never fails
// once its inputs pass these checks.
var (
	// ErrEmptyMatrix is returned when a distance matrix has no rows.
	ErrEmptyMatrix = errors.New("distance matrix is empty")

	// ErrNotSquare is returned when a distance matrix row count does not
	// match its column count.
	ErrNotSquare = errors.New("distance matrix is not square")

	// ErrBadCost is returned when a matrix cell is NaN, infinite or negative.
	ErrBadCost = errors.New("distance matrix contains an invalid cost")

	// ErrBadConfig is returned when a Config violates its constraints.
	ErrBadConfig = errors.New("invalid solver configuration")
)

// Error represents a solver error with context
// that can be wrapped with additional information.
type Error struct {
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newError creates a solver error wrapping a sentinel.
func newError(sentinel error, op, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Op:      op,
		Err:     sentinel,
	}
}
