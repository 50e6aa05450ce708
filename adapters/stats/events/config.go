package events

import (
	"fmt"

	apperrors "gogaze/internal/errors"
)

// MissingMode selects how sentinel-coded samples are handled before
// distance and velocity computations. With MissingNone the sentinel values
// flow into the geometry and produce large spurious jumps, which corrupts
// fixation and saccade boundaries around data loss.
type MissingMode string

const (
	MissingNone        MissingMode = "none"
	MissingReplace     MissingMode = "replace"     // carry the previous sample forward
	MissingInterpolate MissingMode = "interpolate" // linear over the sample index
)

// Validate checks that the mode is supported; the empty string means none
func (m MissingMode) Validate() error {
	switch m {
	case "", MissingNone, MissingReplace, MissingInterpolate:
		return nil
	default:
		return apperrors.InvalidArgument("missing mode %q is not supported, use one of none, replace, interpolate", string(m))
	}
}

// BlinkConfig holds the blink detector thresholds
type BlinkConfig struct {
	Missing       float64 // sentinel coding a lost sample on both axes
	MinLen        int     // minimal run length in samples
	FlushTrailing bool    // emit a run still open at end of trial
}

// FixationConfig holds the dispersion-based fixation detector thresholds
type FixationConfig struct {
	Missing       float64
	MaxDist       float64 // maximal inter-sample distance in pixels
	MinDur        int64   // minimal duration in tracker time units
	MissingMode   MissingMode
	FlushTrailing bool // close a fixation still open at end of trial
}

// SaccadeConfig holds the velocity/acceleration saccade detector thresholds
type SaccadeConfig struct {
	Missing       float64
	MinLen        int64   // minimal duration in milliseconds
	MaxVel        float64 // velocity threshold in pixels per second
	MaxAcc        float64 // acceleration threshold in pixels per second squared
	MissingMode   MissingMode
	FlushTrailing bool // close a saccade without an end at the last sample
}

// MicrosaccadeConfig holds the Engbert & Kliegl detector settings
type MicrosaccadeConfig struct {
	MinDur int64 // minimal duration in tracker time units
	// Lambda multiplies the per-axis noise estimate (median(v²) - median(v)²)
	// to give the squared-velocity threshold. 36 reproduces the published
	// 6σ criterion.
	Lambda        float64
	FlushTrailing bool
}

// DefaultBlinkConfig returns a sentinel of 0 and a ten sample minimum
func DefaultBlinkConfig() BlinkConfig {
	return BlinkConfig{Missing: 0.0, MinLen: 10}
}

// DefaultFixationConfig returns 25 px maximal distance and 50 ms minimal duration
func DefaultFixationConfig() FixationConfig {
	return FixationConfig{Missing: 0.0, MaxDist: 25, MinDur: 50, MissingMode: MissingNone}
}

// DefaultSaccadeConfig returns 5 ms, 40 px/s and 340 px/s² thresholds
func DefaultSaccadeConfig() SaccadeConfig {
	return SaccadeConfig{Missing: 0.0, MinLen: 5, MaxVel: 40, MaxAcc: 340, MissingMode: MissingNone}
}

// DefaultMicrosaccadeConfig returns lambda 6 and a 6 ms minimal duration
func DefaultMicrosaccadeConfig() MicrosaccadeConfig {
	return MicrosaccadeConfig{MinDur: 6, Lambda: 6}
}

func (c BlinkConfig) Validate() error {
	if c.MinLen < 0 {
		return apperrors.InvalidArgument("blink minimal length must be >= 0, got %d", c.MinLen)
	}
	return nil
}

func (c FixationConfig) Validate() error {
	if c.MaxDist < 0 {
		return apperrors.InvalidArgument("fixation maximal distance must be >= 0, got %v", c.MaxDist)
	}
	return c.MissingMode.Validate()
}

func (c SaccadeConfig) Validate() error {
	if c.MaxVel < 0 || c.MaxAcc < 0 {
		return apperrors.InvalidArgument("saccade thresholds must be >= 0, got velocity %v acceleration %v", c.MaxVel, c.MaxAcc)
	}
	return c.MissingMode.Validate()
}

func (c MicrosaccadeConfig) Validate() error {
	if c.Lambda <= 0 {
		return apperrors.InvalidArgument("microsaccade lambda must be > 0, got %v", c.Lambda)
	}
	return nil
}

func (c FixationConfig) String() string {
	return fmt.Sprintf("fixation(maxdist=%g mindur=%d missing=%s)", c.MaxDist, c.MinDur, c.MissingMode)
}

func (c SaccadeConfig) String() string {
	return fmt.Sprintf("saccade(minlen=%d maxvel=%g maxacc=%g missing=%s)", c.MinLen, c.MaxVel, c.MaxAcc, c.MissingMode)
}
