package events

import (
	"math"

	"gogaze/domain/gaze"
)

// DetectFixations finds periods where consecutive samples stay within
// MaxDist pixels of an anchor sample.
//
// While no fixation is open the anchor trails one sample behind the scan.
// When a sample lands within MaxDist of the anchor a fixation opens and that
// sample becomes the anchor. The fixation closes at the first sample further
// than MaxDist from the anchor; it is kept only if it lasted at least MinDur,
// otherwise its provisional start is withdrawn. The anchor position is the
// representative position of the fixation.
//
// A fixation still open at the end of the stream is dropped unless
// FlushTrailing is set.
func DetectFixations(x, y []float64, time []int64, cfg FixationConfig) ([]gaze.Start, []gaze.Event, error) {
	if err := checkStream(x, y, time); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	x, y, err := resolveAxes(x, y, cfg.Missing, cfg.MissingMode)
	if err != nil {
		return nil, nil, err
	}

	starts := []gaze.Start{}
	ends := []gaze.Event{}

	closeFixation := func(si, last int) {
		begin := starts[len(starts)-1].Time
		if time[last]-begin >= cfg.MinDur {
			ends = append(ends, gaze.Event{
				Kind:      gaze.KindFixation,
				StartTime: begin,
				EndTime:   time[last],
				Duration:  time[last] - begin,
				End:       gaze.Point{X: x[si], Y: y[si]},
			})
			return
		}
		starts = starts[:len(starts)-1]
	}

	si := 0
	open := false
	for i := 1; i < len(x); i++ {
		dist := math.Hypot(x[si]-x[i], y[si]-y[i])
		switch {
		case dist <= cfg.MaxDist && !open:
			si = i
			open = true
			starts = append(starts, gaze.Start{Kind: gaze.KindFixation, Time: time[i]})
		case dist > cfg.MaxDist && open:
			open = false
			closeFixation(si, i-1)
			si = i
		case !open:
			si++
		}
	}

	if open && cfg.FlushTrailing {
		closeFixation(si, len(x)-1)
	}

	return starts, ends, nil
}
