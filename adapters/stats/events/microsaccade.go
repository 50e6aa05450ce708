package events

import (
	"math"

	"github.com/montanaflynn/stats"

	"gogaze/domain/gaze"
)

// DetectMicrosaccades implements the Engbert & Kliegl velocity detector.
//
// Velocity per axis is a five-sample moving estimate
// (p[n+2] + p[n+1] - p[n-1] - p[n-2]) / (6·dt), undefined for the first and
// last two samples. Each axis gets an adaptive threshold of Lambda times the
// noise estimate median(v²) - median(v)². A sample moves when the squared
// velocity of either axis exceeds its threshold, and every contiguous run of
// moving samples is a candidate. Candidates shorter than MinDur are removed
// after the whole trace has been scanned.
//
// A run still moving at the last sample with a defined velocity is trailing:
// it is dropped unless FlushTrailing is set, which closes it at the last
// sample.
func DetectMicrosaccades(x, y []float64, time []int64, cfg MicrosaccadeConfig) ([]gaze.Event, error) {
	if err := checkStream(x, y, time); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vx := movingVelocity(x, time)
	vy := movingVelocity(y, time)
	tx, okx := adaptiveThreshold(vx, cfg.Lambda)
	ty, oky := adaptiveThreshold(vy, cfg.Lambda)
	if !okx || !oky {
		return []gaze.Event{}, nil
	}

	moving := func(i int) bool {
		return vx[i]*vx[i] > tx || vy[i]*vy[i] > ty
	}

	var candidates []gaze.Event
	start := -1
	// velocity is undefined for the last two samples
	for i := 0; i < len(time)-2; i++ {
		switch {
		case moving(i) && start < 0:
			start = i
		case !moving(i) && start >= 0:
			candidates = append(candidates, microsaccade(x, y, time, start, i-1))
			start = -1
		}
	}
	if start >= 0 && cfg.FlushTrailing {
		candidates = append(candidates, microsaccade(x, y, time, start, len(time)-1))
	}

	ends := make([]gaze.Event, 0, len(candidates))
	for _, c := range candidates {
		if c.Duration >= cfg.MinDur {
			ends = append(ends, c)
		}
	}
	return ends, nil
}

func microsaccade(x, y []float64, time []int64, s, e int) gaze.Event {
	return gaze.Event{
		Kind:      gaze.KindMicrosaccade,
		StartTime: time[s],
		EndTime:   time[e],
		Duration:  time[e] - time[s],
		Start:     gaze.Point{X: x[s], Y: y[s]},
		End:       gaze.Point{X: x[e], Y: y[e]},
	}
}

// movingVelocity returns the five-sample velocity estimate, NaN where the
// window does not fit
func movingVelocity(p []float64, time []int64) []float64 {
	v := make([]float64, len(p))
	for i := range v {
		if i < 2 || i >= len(p)-2 {
			v[i] = math.NaN()
			continue
		}
		dt := float64(time[i+2]-time[i-2]) / 4.0
		v[i] = (p[i+2] + p[i+1] - p[i-1] - p[i-2]) / (6.0 * dt)
	}
	return v
}

// adaptiveThreshold returns lambda * (median(v²) - median(v)²) over the
// defined velocities; ok is false when no velocity is defined
func adaptiveThreshold(v []float64, lambda float64) (float64, bool) {
	defined := make([]float64, 0, len(v))
	squared := make([]float64, 0, len(v))
	for _, s := range v {
		if math.IsNaN(s) {
			continue
		}
		defined = append(defined, s)
		squared = append(squared, s*s)
	}
	if len(defined) == 0 {
		return 0, false
	}

	medSq, err := stats.Median(squared)
	if err != nil {
		return 0, false
	}
	med, err := stats.Median(defined)
	if err != nil {
		return 0, false
	}
	noise := math.Max(medSq-med*med, 0)
	return lambda * noise, true
}
