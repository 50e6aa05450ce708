package traces

import (
	"github.com/montanaflynn/stats"

	apperrors "gogaze/internal/errors"
)

// RemoveOutliers codes samples further than MaxDev standard deviations from
// the mean as invalid and, when Interpolate is set, bridges them with
// InterpolateMissing. A signal whose standard deviation is below
// AllowFraction of its mean is returned unchanged.
func RemoveOutliers(signal []float64, opts OutlierOptions) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out, err := cloneSignal(signal)
	if err != nil {
		return nil, err
	}

	mean, err := stats.Mean(out)
	if err != nil {
		return nil, apperrors.NumericDegenerate("cannot average signal", err)
	}
	sd, err := stats.StandardDeviationPopulation(out)
	if err != nil {
		return nil, apperrors.NumericDegenerate("cannot compute signal deviation", err)
	}
	if sd < mean*opts.AllowFraction {
		return out, nil
	}

	lower, upper := mean-opts.MaxDev*sd, mean+opts.MaxDev*sd
	for i, v := range out {
		if v < lower || v > upper {
			out[i] = opts.Invalid
		}
	}
	if !opts.Interpolate {
		return out, nil
	}
	return InterpolateMissing(out, opts.missing())
}
