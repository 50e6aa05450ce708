package events

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"gogaze/domain/core"
	"gogaze/domain/gaze"
	apperrors "gogaze/internal/errors"
)

// isMissing compares against the sentinel, treating a NaN sentinel as matching NaN
func isMissing(v, missing float64) bool {
	if math.IsNaN(missing) {
		return math.IsNaN(v)
	}
	return v == missing
}

// ResolveMissing returns a copy of signal without sentinel values.
//
// In carry-forward mode every missing sample takes the value of the sample
// before it; a missing first sample becomes NaN and that NaN is carried into
// the run that follows. In interpolate mode missing samples are filled
// linearly between the nearest valid neighbours on the sample index axis;
// samples before the first or after the last valid sample stay NaN.
//
// A signal with no valid sample fails with NUMERIC_DEGENERATE.
func ResolveMissing(signal []float64, missing float64, interpolate bool) ([]float64, error) {
	out := append([]float64(nil), signal...)
	if len(out) == 0 {
		return out, nil
	}

	valid := 0
	for _, v := range out {
		if !isMissing(v, missing) {
			valid++
		}
	}
	if valid == 0 {
		return nil, apperrors.NumericDegenerate("cannot resolve missing samples", core.ErrNoValidSamples)
	}
	if valid == len(out) {
		return out, nil
	}

	if interpolate {
		return interpolateMissings(out, missing)
	}

	if isMissing(out[0], missing) {
		out[0] = math.NaN()
	}
	for i := 1; i < len(out); i++ {
		if isMissing(out[i], missing) {
			out[i] = out[i-1]
		}
	}
	return out, nil
}

func interpolateMissings(data []float64, missing float64) ([]float64, error) {
	xs := make([]float64, 0, len(data))
	ys := make([]float64, 0, len(data))
	for i, v := range data {
		if !isMissing(v, missing) {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}

	first, last := xs[0], xs[len(xs)-1]
	var pl interp.PiecewiseLinear
	if len(xs) > 1 {
		if err := pl.Fit(xs, ys); err != nil {
			return nil, apperrors.NumericDegenerate("linear fit over valid samples failed", err)
		}
	}

	for i, v := range data {
		if !isMissing(v, missing) {
			continue
		}
		fi := float64(i)
		if fi < first || fi > last {
			data[i] = math.NaN()
			continue
		}
		data[i] = pl.Predict(fi)
	}
	return data, nil
}

// resolveAxes applies the configured missing mode to both position arrays
func resolveAxes(x, y []float64, missing float64, mode MissingMode) ([]float64, []float64, error) {
	if mode == "" || mode == MissingNone {
		return x, y, nil
	}
	interpolate := mode == MissingInterpolate
	rx, err := ResolveMissing(x, missing, interpolate)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "resolve missing x")
	}
	ry, err := ResolveMissing(y, missing, interpolate)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "resolve missing y")
	}
	return rx, ry, nil
}

// checkStream validates the x/y/time arrays shared by every detector
func checkStream(x, y []float64, time []int64) error {
	if err := gaze.CheckAligned(x, y, time); err != nil {
		return apperrors.InvalidInput("invalid sample stream", err)
	}
	return nil
}
