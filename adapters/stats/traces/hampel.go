package traces

import (
	"math"

	"github.com/montanaflynn/stats"

	apperrors "gogaze/internal/errors"
)

// madScale converts a median absolute deviation into a standard deviation
// estimate for normally distributed data
const madScale = 1.4826

// Hampel replaces samples with the median of a sliding window. The window
// is centred on the sample, starts at it (left) or ends just before it
// (right). Samples are rewritten in place as the window advances, so later
// windows see earlier replacements.
func Hampel(signal []float64, opts HampelOptions) ([]float64, error) {
	if err := opts.Focus.Validate(); err != nil {
		return nil, err
	}
	out, err := cloneSignal(signal)
	if err != nil {
		return nil, err
	}
	n := len(out)
	w := opts.WindowLen
	if w < 2 || w > n {
		return nil, apperrors.InvalidArgument("hampel window must be between 2 and the signal length %d, got %d", n, w)
	}
	if opts.Threshold < 0 {
		return nil, apperrors.InvalidArgument("hampel threshold must be >= 0, got %v", opts.Threshold)
	}

	var first, last int
	var window func(i int) (int, int)
	switch opts.Focus {
	case FocusCentre:
		h := w / 2
		first, last = h, n-h
		window = func(i int) (int, int) { return i - h, i + h }
	case FocusLeft:
		first, last = 0, n-w-1
		window = func(i int) (int, int) { return i, i + w }
	case FocusRight:
		first, last = w, n-1
		window = func(i int) (int, int) { return i - w, i }
	}

	for i := first; i <= last; i++ {
		lo, hi := window(i)
		med, err := stats.Median(out[lo:hi])
		if err != nil {
			return nil, apperrors.NumericDegenerate("cannot take window median", err)
		}
		mad, err := stats.MedianAbsoluteDeviationPopulation(out[lo:hi])
		if err != nil {
			return nil, apperrors.NumericDegenerate("cannot take window deviation", err)
		}
		limit := opts.Threshold * madScale * mad

		x := out[i]
		var replace bool
		if opts.Corrected {
			replace = math.Abs(x-med) > limit
		} else {
			replace = x > limit || x < limit
		}
		if replace {
			out[i] = med
		}
	}
	return out, nil
}
