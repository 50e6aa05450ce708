package events

import (
	"gogaze/domain/gaze"
)

// DetectBlinks finds runs of samples where both x and y carry the missing
// sentinel.
//
// Every run onset is returned as a provisional start. A run becomes an end
// record only when it spans at least MinLen samples; its end time is the
// timestamp of the last missing sample. A run that is still open at the end
// of the trial is dropped unless FlushTrailing is set. A run that begins at
// the very first sample has no onset edge and is never reported.
//
// Only the end records are authoritative; the starts list is not filtered.
func DetectBlinks(x, y []float64, time []int64, cfg BlinkConfig) ([]gaze.Start, []gaze.Event, error) {
	if err := checkStream(x, y, time); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	n := len(time)
	miss := make([]bool, n)
	for i := range miss {
		miss[i] = isMissing(x[i], cfg.Missing) && isMissing(y[i], cfg.Missing)
	}

	// rising edges are the first missing sample of a run, falling edges the
	// first valid sample after it
	var rises, falls []int
	for i := 1; i < n; i++ {
		switch {
		case miss[i] && !miss[i-1]:
			rises = append(rises, i)
		case !miss[i] && miss[i-1]:
			falls = append(falls, i)
		}
	}

	starts := make([]gaze.Start, 0, len(rises))
	ends := make([]gaze.Event, 0, len(rises))
	fi := 0
	for _, s := range rises {
		starts = append(starts, gaze.Start{Kind: gaze.KindBlink, Time: time[s]})

		for fi < len(falls) && falls[fi] <= s {
			fi++
		}
		e := n
		if fi < len(falls) {
			e = falls[fi]
		} else if !cfg.FlushTrailing {
			continue
		}

		if e-s < cfg.MinLen {
			continue
		}
		ends = append(ends, gaze.Event{
			Kind:      gaze.KindBlink,
			StartTime: time[s],
			EndTime:   time[e-1],
			Duration:  time[e-1] - time[s],
		})
	}

	return starts, ends, nil
}
