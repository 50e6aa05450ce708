package traces

import (
	"gogaze/domain/core"
	"gogaze/domain/gaze"
	apperrors "gogaze/internal/errors"
)

// InterpolateBlinks repairs blink artefacts in a pupil trace. A blink is a
// drop faster than VelThresh followed by a rise faster than VelThresh and a
// return to a falling slope. Each blink is widened by Margin and bridged
// unless it spans more than MaxDur samples.
func InterpolateBlinks(signal []float64, opts BlinkInterpolation) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out, err := cloneSignal(signal)
	if err != nil {
		return nil, err
	}
	if opts.StructuralOnly {
		// a bare signal carries no recorded blinks
		return out, nil
	}
	filler := &gapFiller{signal: out, invalid: opts.Invalid, mode: opts.Mode}
	if err := filler.fillAll(velocityBlinks(out, opts)); err != nil {
		return nil, err
	}
	return out, nil
}

// InterpolateTrialBlinks repairs the pupil trace of a trial using its
// recorded and detected blink events, followed by velocity based detection on the trace
// unless StructuralOnly is set.
func InterpolateTrialBlinks(trial gaze.Trial, opts BlinkInterpolation) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(trial.Samples.Size) != len(trial.Samples.Time) {
		return nil, apperrors.InvalidInput("trial pupil trace is not aligned with its timestamps",
			core.NewLengthMismatchError("size", len(trial.Samples.Size), len(trial.Samples.Time)))
	}
	out, err := cloneSignal(trial.Samples.Size)
	if err != nil {
		return nil, err
	}

	n := len(out)
	var spans []span
	for _, b := range trial.Events.BlinkIntervals() {
		st := trial.IndexOfTime(b.StartTime)
		if st < 0 {
			st = 0
		}
		et := trial.IndexOfTime(b.EndTime)
		if et < 0 {
			et = n - 1
		}
		if st-opts.Margin >= 0 {
			st -= opts.Margin
		}
		if et+opts.Margin < n {
			et += opts.Margin
		}
		if et-st <= opts.MaxDur {
			spans = append(spans, span{start: st, end: et})
		}
	}
	if !opts.StructuralOnly {
		spans = append(spans, velocityBlinks(out, opts)...)
	}

	filler := &gapFiller{signal: out, invalid: opts.Invalid, mode: opts.Mode}
	if err := filler.fillAll(spans); err != nil {
		return nil, err
	}
	return out, nil
}

// velocityBlinks scans the sample-to-sample change of the trace for
// onset, reversal and closure. The scan stops at the first onset that has
// no reversal after it.
func velocityBlinks(signal []float64, opts BlinkInterpolation) []span {
	n := len(signal)
	if n < 2 {
		return nil
	}
	vprof := make([]float64, n-1)
	for i := range vprof {
		vprof[i] = signal[i+1] - signal[i]
	}

	var spans []span
	from := 0
	for from < len(vprof) {
		onset := firstIndex(vprof, from, func(v float64) bool { return v < -opts.VelThresh })
		if onset < 0 {
			break
		}
		reversal := firstIndex(vprof, onset, func(v float64) bool { return v > opts.VelThresh })
		if reversal < 0 {
			break
		}
		closure := firstIndex(vprof, reversal, func(v float64) bool { return v < 0 })
		if closure < 0 {
			from = reversal
			continue
		}
		from = closure

		if onset-opts.Margin >= 0 {
			onset -= opts.Margin
		}
		if closure+opts.Margin < n {
			closure += opts.Margin
		}
		if closure-onset > opts.MaxDur {
			continue
		}
		spans = append(spans, span{start: onset, end: closure})
	}
	return spans
}

func firstIndex(v []float64, from int, pred func(float64) bool) int {
	for i := from; i < len(v); i++ {
		if pred(v[i]) {
			return i
		}
	}
	return -1
}
