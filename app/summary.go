package app

import (
	"math"

	"github.com/montanaflynn/stats"

	"gogaze/domain/gaze"
)

// Summarize computes descriptive statistics of an annotated trial. The
// pupil statistics use the repaired trace when given, otherwise the raw
// size samples, skipping samples coded invalid.
func Summarize(trial gaze.Trial, pupil []float64, invalid float64) gaze.Summary {
	ev := trial.Events
	s := gaze.Summary{
		TrialIndex:    trial.Index,
		Samples:       trial.Samples.Len(),
		Duration:      trial.Duration(),
		Blinks:        len(ev.Blinks),
		Fixations:     len(ev.Fixations),
		Saccades:      len(ev.Saccades),
		Microsaccades: len(ev.Microsaccades),
	}

	fixDur := durations(ev.Fixations)
	s.MeanFixationDuration = orZero(stats.Mean(fixDur))
	s.MedianFixationDuration = orZero(stats.Median(fixDur))
	s.MeanSaccadeDuration = orZero(stats.Mean(durations(ev.Saccades)))

	amps := make([]float64, len(ev.Saccades))
	for i, sac := range ev.Saccades {
		amps[i] = sac.Amplitude()
	}
	s.MeanSaccadeAmplitude = orZero(stats.Mean(amps))
	s.MaxSaccadeAmplitude = orZero(stats.Max(amps))

	if s.Duration > 0 {
		s.BlinkRate = float64(s.Blinks) / (float64(s.Duration) / 1000)
	}

	if pupil == nil {
		pupil = trial.Samples.Size
	}
	valid := make([]float64, 0, len(pupil))
	for _, v := range pupil {
		if v != invalid && !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	s.MeanPupil = orZero(stats.Mean(valid))
	s.SDPupil = orZero(stats.StandardDeviationPopulation(valid))
	return s
}

func durations(evs []gaze.Event) []float64 {
	out := make([]float64, len(evs))
	for i, e := range evs {
		out[i] = float64(e.Duration)
	}
	return out
}

// orZero maps the empty-input error of the stats package to zero
func orZero(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
