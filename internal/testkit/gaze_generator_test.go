package testkit

import (
	"reflect"
	"testing"

	"gogaze/adapters/stats/events"
)

func TestGazeDataGenerator_Basic(t *testing.T) {
	config := DefaultGazeConfig()
	config.Trials = 3

	trials := NewGazeDataGenerator(config).GenerateTrials()
	if len(trials) != 3 {
		t.Fatalf("Expected 3 trials, got %d", len(trials))
	}

	for i, trial := range trials {
		if trial.Index != i {
			t.Errorf("Trial %d has index %d", i, trial.Index)
		}
		if trial.ID.String() == "" {
			t.Errorf("Trial %d has empty ID", i)
		}
		if err := trial.Samples.Validate(); err != nil {
			t.Errorf("Trial %d has malformed samples: %v", i, err)
		}
		if len(trial.Samples.Size) != trial.Samples.Len() {
			t.Errorf("Trial %d pupil trace has %d samples, expected %d", i, len(trial.Samples.Size), trial.Samples.Len())
		}
		// five fixations of at least 100 samples plus four saccades
		if trial.Samples.Len() < 5*100+4*10 {
			t.Errorf("Trial %d is too short: %d samples", i, trial.Samples.Len())
		}
	}
}

func TestGazeDataGenerator_Deterministic(t *testing.T) {
	a := NewGazeDataGenerator(DefaultGazeConfig()).GenerateTrials()
	b := NewGazeDataGenerator(DefaultGazeConfig()).GenerateTrials()
	for i := range a {
		if !reflect.DeepEqual(a[i].Samples, b[i].Samples) {
			t.Fatalf("Trial %d differs between runs with the same seed", i)
		}
	}
}

func TestGazeDataGenerator_BlinksAreDetectable(t *testing.T) {
	config := DefaultGazeConfig()
	config.BlinkProbability = 1

	for _, trial := range NewGazeDataGenerator(config).GenerateTrials() {
		if len(trial.Events.RecordedBlinks) != 1 {
			t.Fatalf("Trial %d: expected one planted blink, got %d", trial.Index, len(trial.Events.RecordedBlinks))
		}

		_, detected, err := events.DetectBlinks(trial.Samples.X, trial.Samples.Y, trial.Samples.Time, events.DefaultBlinkConfig())
		if err != nil {
			t.Fatalf("Trial %d: blink detection failed: %v", trial.Index, err)
		}
		if !reflect.DeepEqual(trial.Events.RecordedBlinks, detected) {
			t.Errorf("Trial %d: planted %+v, detected %+v", trial.Index, trial.Events.RecordedBlinks, detected)
		}

		planted := trial.Events.RecordedBlinks[0]
		i := trial.IndexOfTime(planted.StartTime)
		if trial.Samples.Size[i] != 0 {
			t.Errorf("Trial %d: pupil should be closed during the blink", trial.Index)
		}
	}
}

func TestGazeDataGenerator_NoBlinks(t *testing.T) {
	config := DefaultGazeConfig()
	config.BlinkProbability = 0

	for _, trial := range NewGazeDataGenerator(config).GenerateTrials() {
		if n := len(trial.Events.RecordedBlinks); n != 0 {
			t.Errorf("Trial %d: expected no blinks, got %d", trial.Index, n)
		}
	}
}
