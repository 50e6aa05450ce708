package gaze

import (
	"gogaze/domain/core"
)

// Samples is the buffered sample stream of one trial. The arrays are index
// aligned; Size may be empty when the source did not record pupil size.
type Samples struct {
	Time []int64   // tracker clock, zero-based at trial start
	X    []float64 // horizontal gaze position in pixels
	Y    []float64 // vertical gaze position in pixels
	Size []float64 // pupil size, sentinel-coded when missing
}

// Len returns the number of samples
func (s Samples) Len() int {
	return len(s.Time)
}

// Validate checks the alignment and ordering invariants of the stream
func (s Samples) Validate() error {
	if err := CheckAligned(s.X, s.Y, s.Time); err != nil {
		return err
	}
	if len(s.Size) != 0 && len(s.Size) != len(s.Time) {
		return core.NewLengthMismatchError("size", len(s.Size), len(s.Time))
	}
	return CheckMonotonic(s.Time)
}

// Clone returns a deep copy so callers can repair traces without touching the original
func (s Samples) Clone() Samples {
	return Samples{
		Time: append([]int64(nil), s.Time...),
		X:    append([]float64(nil), s.X...),
		Y:    append([]float64(nil), s.Y...),
		Size: append([]float64(nil), s.Size...),
	}
}

// CheckAligned verifies that x, y and time have the same length
func CheckAligned(x, y []float64, time []int64) error {
	if len(x) != len(time) {
		return core.NewLengthMismatchError("x", len(x), len(time))
	}
	if len(y) != len(time) {
		return core.NewLengthMismatchError("y", len(y), len(time))
	}
	return nil
}

// CheckMonotonic verifies that timestamps never decrease
func CheckMonotonic(time []int64) error {
	for i := 1; i < len(time); i++ {
		if time[i] < time[i-1] {
			return core.NewNonMonotonicError(i, time[i-1], time[i])
		}
	}
	return nil
}

// Message is a timestamped text line logged by the experiment during a trial
type Message struct {
	Time int64  `json:"time"`
	Text string `json:"text"`
}
