package ports

import (
	"context"
	"time"

	"gogaze/domain/core"
	"gogaze/domain/gaze"
)

// TrialSource loads the buffered trials of one recording
type TrialSource interface {
	ReadTrials(ctx context.Context) ([]gaze.Trial, error)
}

// ResultSink persists the outcome of a pipeline run
type ResultSink interface {
	WriteResults(ctx context.Context, run RunResult) error
}

// RunResult is the outcome of processing every trial of one source
type RunResult struct {
	ID        core.RunID
	Source    string
	Params    core.Hash
	StartedAt time.Time
	Duration  time.Duration
	Trials    []TrialResult
}

// TrialResult pairs an annotated trial with its repaired pupil trace
type TrialResult struct {
	Trial gaze.Trial
	// Pupil is the repaired size trace; nil when repair is disabled or the
	// trial has no pupil data
	Pupil   []float64
	Summary gaze.Summary
}

// EventCount totals the end records across all trials
func (r RunResult) EventCount() int {
	n := 0
	for _, t := range r.Trials {
		n += len(t.Trial.Events.All())
	}
	return n
}
