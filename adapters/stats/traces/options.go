package traces

import (
	"math"

	apperrors "gogaze/internal/errors"
)

// InterpolationMode selects the interpolant used to bridge a gap
type InterpolationMode string

const (
	ModeAuto   InterpolationMode = "auto"   // cubic when four knots are available, linear otherwise
	ModeLinear InterpolationMode = "linear" // always linear
	ModeCubic  InterpolationMode = "cubic"  // cubic whenever the knot set allows it
)

func (m InterpolationMode) Validate() error {
	switch m {
	case ModeAuto, ModeLinear, ModeCubic:
		return nil
	default:
		return apperrors.InvalidArgument("interpolation mode %q is not supported, use one of auto, linear, cubic", string(m))
	}
}

// Kernel is the smoothing window shape
type Kernel string

const (
	KernelFlat     Kernel = "flat"
	KernelHanning  Kernel = "hanning"
	KernelHamming  Kernel = "hamming"
	KernelBartlett Kernel = "bartlett"
	KernelBlackman Kernel = "blackman"
)

func (k Kernel) Validate() error {
	switch k {
	case KernelFlat, KernelHanning, KernelHamming, KernelBartlett, KernelBlackman:
		return nil
	default:
		return apperrors.InvalidArgument("smoothing kernel %q is not supported, use one of flat, hanning, hamming, bartlett, blackman", string(k))
	}
}

// Focus positions the corrected sample relative to the Hampel window
type Focus string

const (
	FocusCentre Focus = "centre"
	FocusLeft   Focus = "left"
	FocusRight  Focus = "right"
)

func (f Focus) Validate() error {
	switch f {
	case FocusCentre, FocusLeft, FocusRight:
		return nil
	default:
		return apperrors.InvalidArgument("hampel focus %q is not supported, use one of centre, left, right", string(f))
	}
}

// BlinkInterpolation configures InterpolateBlinks and InterpolateTrialBlinks
type BlinkInterpolation struct {
	Mode      InterpolationMode
	VelThresh float64 // signal change per sample that marks blink onset and reversal
	MaxDur    int     // longest blink in samples that is still repaired
	Margin    int     // samples added on each side of a detected blink
	Invalid   float64 // value coding invalid samples
	// StructuralOnly restricts repair to the blink events recorded with the
	// trial and skips velocity based detection
	StructuralOnly bool
}

// MissingInterpolation configures InterpolateMissing
type MissingInterpolation struct {
	Mode    InterpolationMode
	MinDur  int // shortest gap in samples that may be bridged cubically
	Margin  int
	Invalid float64
}

// OutlierOptions configures RemoveOutliers
type OutlierOptions struct {
	MaxDev        float64 // distance from the mean in standard deviations
	Invalid       float64 // value written over outliers
	Interpolate   bool    // bridge the removed samples with InterpolateMissing
	Mode          InterpolationMode
	AllowFraction float64 // signals with SD below this fraction of the mean are left alone
	MinDur        int
	Margin        int
}

// HampelOptions configures Hampel
type HampelOptions struct {
	WindowLen int
	Threshold float64
	Focus     Focus
	// Corrected compares the deviation from the window median against the
	// threshold. When false the raw sample value is compared, which replaces
	// almost every sample with its window median.
	Corrected bool
}

// SmoothOptions configures Smooth
type SmoothOptions struct {
	WindowLen     int
	Kernel        Kernel
	LengthCorrect bool // trim the convolution back to the input length
}

func DefaultBlinkInterpolation() BlinkInterpolation {
	return BlinkInterpolation{Mode: ModeAuto, VelThresh: 5, MaxDur: 500, Margin: 10, Invalid: -1}
}

func DefaultMissingInterpolation() MissingInterpolation {
	return MissingInterpolation{Mode: ModeAuto, MinDur: 5, Margin: 10, Invalid: -1}
}

func DefaultOutlierOptions() OutlierOptions {
	return OutlierOptions{MaxDev: 2.5, Invalid: -1, Interpolate: true, Mode: ModeAuto, AllowFraction: 0.1, MinDur: 5, Margin: 10}
}

func DefaultHampelOptions() HampelOptions {
	return HampelOptions{WindowLen: 12, Threshold: 3, Focus: FocusCentre}
}

func DefaultSmoothOptions() SmoothOptions {
	return SmoothOptions{WindowLen: 11, Kernel: KernelHanning, LengthCorrect: true}
}

func (o BlinkInterpolation) Validate() error {
	if err := o.Mode.Validate(); err != nil {
		return err
	}
	if o.VelThresh < 0 || o.MaxDur < 0 || o.Margin < 0 {
		return apperrors.InvalidArgument("blink interpolation thresholds must be >= 0 (velthresh %v, maxdur %d, margin %d)", o.VelThresh, o.MaxDur, o.Margin)
	}
	return nil
}

func (o MissingInterpolation) Validate() error {
	if err := o.Mode.Validate(); err != nil {
		return err
	}
	if o.MinDur < 0 || o.Margin < 0 {
		return apperrors.InvalidArgument("missing interpolation thresholds must be >= 0 (mindur %d, margin %d)", o.MinDur, o.Margin)
	}
	return nil
}

func (o OutlierOptions) Validate() error {
	if err := o.Mode.Validate(); err != nil {
		return err
	}
	if o.MaxDev <= 0 {
		return apperrors.InvalidArgument("outlier deviation must be > 0, got %v", o.MaxDev)
	}
	return nil
}

// missing returns the interpolation settings used to bridge removed outliers
func (o OutlierOptions) missing() MissingInterpolation {
	return MissingInterpolation{Mode: o.Mode, MinDur: o.MinDur, Margin: o.Margin, Invalid: o.Invalid}
}

// isInvalid compares against the invalid code, treating a NaN code as matching NaN
func isInvalid(v, invalid float64) bool {
	if math.IsNaN(invalid) {
		return math.IsNaN(v)
	}
	return v == invalid
}
