package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input shape errors
	ErrLengthMismatch   = errors.New("sample arrays differ in length")
	ErrNonMonotonicTime = errors.New("timestamps are not non-decreasing")
	ErrEmptySignal      = errors.New("signal is empty")

	// Numeric errors
	ErrNoValidSamples = errors.New("no valid samples")
)

// NewLengthMismatchError reports which array disagrees with the reference length
func NewLengthMismatchError(name string, got, want int) error {
	return fmt.Errorf("%w: %s has %d samples, expected %d", ErrLengthMismatch, name, got, want)
}

// NewNonMonotonicError reports the first index where time runs backwards
func NewNonMonotonicError(index int, prev, cur int64) error {
	return fmt.Errorf("%w: time[%d]=%d < time[%d]=%d", ErrNonMonotonicTime, index, cur, index-1, prev)
}

// IsShapeError reports whether err stems from malformed sample arrays
func IsShapeError(err error) bool {
	return errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrNonMonotonicTime) ||
		errors.Is(err, ErrEmptySignal)
}
