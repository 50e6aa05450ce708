package events

import (
	"math"

	"gogaze/domain/gaze"
)

// DetectSaccades finds periods of fast eye movement. Time is expected in
// milliseconds, MaxVel in pixels per second and MaxAcc in pixels per second
// squared.
//
// Inter-sample velocity is the Euclidean step divided by the step time and
// acceleration its first difference. From a cursor the scan looks for the
// first sample where velocity or acceleration exceeds its threshold (the
// saccade start), then for the first sample after it where both are back
// under threshold (the saccade end, offset by the two-sample lag of the
// acceleration estimate). Saccades shorter than MinLen are discarded and the
// cursor moves on to the end sample.
//
// A start without an end stops the scan and is dropped unless FlushTrailing
// is set, in which case it closes at the last sample.
func DetectSaccades(x, y []float64, time []int64, cfg SaccadeConfig) ([]gaze.Start, []gaze.Event, error) {
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

	n := len(time)
	if n < 3 {
		return starts, ends, nil
	}

	vel := make([]float64, n-1)
	for i := range vel {
		dist := math.Hypot(x[i+1]-x[i], y[i+1]-y[i])
		dt := float64(time[i+1]-time[i]) / 1000.0
		vel[i] = dist / dt
	}
	acc := make([]float64, n-2)
	for i := range acc {
		acc[i] = vel[i+1] - vel[i]
	}

	emit := func(t1, t2 int) {
		dur := time[t2] - time[t1]
		if dur < cfg.MinLen {
			starts = starts[:len(starts)-1]
			return
		}
		ends = append(ends, gaze.Event{
			Kind:      gaze.KindSaccade,
			StartTime: time[t1],
			EndTime:   time[t2],
			Duration:  dur,
			Start:     gaze.Point{X: x[t1], Y: y[t1]},
			End:       gaze.Point{X: x[t2], Y: y[t2]},
		})
	}

	t0 := 0
	for {
		t1 := -1
		for j := t0; j < len(acc); j++ {
			if vel[j+1] > cfg.MaxVel || acc[j] > cfg.MaxAcc {
				t1 = j + 1
				break
			}
		}
		if t1 < 0 {
			break
		}
		if t1 >= n-1 {
			t1 = n - 2
		}
		starts = append(starts, gaze.Start{Kind: gaze.KindSaccade, Time: time[t1]})

		t2 := -1
		for k := t1; k < len(acc); k++ {
			if vel[k+1] < cfg.MaxVel && acc[k] < cfg.MaxAcc {
				t2 = k + 3
				break
			}
		}
		if t2 < 0 {
			if cfg.FlushTrailing {
				emit(t1, n-1)
			}
			break
		}
		if t2 >= n {
			t2 = n - 1
		}
		emit(t1, t2)
		t0 = t2
	}

	return starts, ends, nil
}
