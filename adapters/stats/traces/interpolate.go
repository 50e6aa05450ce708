package traces

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/interp"

	"gogaze/domain/core"
	apperrors "gogaze/internal/errors"
)

// span is a half-open sample range [start, end) to be rewritten
type span struct {
	start, end int
}

// gapFiller bridges spans of a signal in place. The signal is owned by the
// caller of the exported repair function, never by the user.
type gapFiller struct {
	signal  []float64
	invalid float64
	mode    InterpolationMode
	// minDur forces linear interpolation for spans shorter than it
	minDur int
	// checkOuter drops outer knots that sit on invalid samples
	checkOuter bool
	mean       *float64
}

// validMean averages the samples that are not coded invalid
func (g *gapFiller) validMean() (float64, error) {
	if g.mean != nil {
		return *g.mean, nil
	}
	valid := make([]float64, 0, len(g.signal))
	for _, v := range g.signal {
		if !isInvalid(v, g.invalid) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0, apperrors.NumericDegenerate("signal has no valid samples to average", core.ErrNoValidSamples)
	}
	m, err := stats.Mean(valid)
	if err != nil {
		return 0, apperrors.NumericDegenerate("cannot average valid samples", err)
	}
	g.mean = &m
	return m, nil
}

// knots returns up to four anchor indices around a span: one span length
// before it, its start, its end and one span length after it
func (g *gapFiller) knots(s span) []int {
	n := len(g.signal)
	d := s.end - s.start
	idx := make([]int, 0, 4)
	if before := s.start - d; before >= 0 && (!g.checkOuter || !isInvalid(g.signal[before], g.invalid)) {
		idx = append(idx, before)
	}
	idx = append(idx, s.start, s.end)
	if after := s.end + d; after < n && (!g.checkOuter || !isInvalid(g.signal[after], g.invalid)) {
		idx = append(idx, after)
	}
	return idx
}

func (g *gapFiller) cubic(s span, knots int) bool {
	if knots < 4 || s.end-s.start < g.minDur {
		return false
	}
	return g.mode == ModeAuto || g.mode == ModeCubic
}

// fill rewrites signal[start:end] with values predicted from the knots.
// Spans without width are skipped.
func (g *gapFiller) fill(s span) error {
	if s.end <= s.start {
		return nil
	}
	idx := g.knots(s)
	xs := make([]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, k := range idx {
		xs[i] = float64(k)
		ys[i] = g.signal[k]
		if isInvalid(ys[i], g.invalid) {
			m, err := g.validMean()
			if err != nil {
				return err
			}
			ys[i] = m
		}
	}

	var p interp.FittablePredictor
	if g.cubic(s, len(idx)) {
		p = &interp.NotAKnotCubic{}
	} else {
		p = &interp.PiecewiseLinear{}
	}
	if err := p.Fit(xs, ys); err != nil {
		return apperrors.Wrap(err, "interpolant fit failed")
	}
	for i := s.start; i < s.end; i++ {
		g.signal[i] = p.Predict(float64(i))
	}
	return nil
}

func (g *gapFiller) fillAll(spans []span) error {
	for _, s := range spans {
		if err := g.fill(s); err != nil {
			return err
		}
	}
	return nil
}

func cloneSignal(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, &apperrors.AppError{Code: apperrors.CodeInvalidArgument, Message: "cannot repair signal", Cause: core.ErrEmptySignal}
	}
	out := make([]float64, len(signal))
	copy(out, signal)
	return out, nil
}
