package app

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gogaze/adapters/stats/events"
	"gogaze/adapters/stats/traces"
	"gogaze/domain/core"
	"gogaze/domain/gaze"
	"gogaze/internal/config"
	"gogaze/internal/errors"
	"gogaze/ports"
)

// Pipeline runs event detection and pupil repair over the trials of a
// recording. Trials are independent and processed concurrently, bounded by
// a weighted semaphore; results keep the input order.
type Pipeline struct {
	params  config.Parameters
	workers int64
	sem     *semaphore.Weighted
}

// NewPipeline creates a pipeline; workers < 1 means GOMAXPROCS
func NewPipeline(params config.Parameters, workers int) *Pipeline {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{
		params:  params,
		workers: int64(workers),
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// Execute reads the source, processes every trial and hands the run to each sink in turn
func (p *Pipeline) Execute(ctx context.Context, name string, source ports.TrialSource, sinks ...ports.ResultSink) (*ports.RunResult, error) {
	trials, err := source.ReadTrials(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read trials from %s", name)
	}
	run, err := p.Run(ctx, name, trials)
	if err != nil {
		return nil, err
	}
	for _, sink := range sinks {
		if err := sink.WriteResults(ctx, *run); err != nil {
			return nil, errors.Wrap(err, "failed to write results")
		}
	}
	return run, nil
}

// Run processes the trials. The first failing trial cancels the rest and
// no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, name string, trials []gaze.Trial) (*ports.RunResult, error) {
	run := &ports.RunResult{
		ID:        core.NewRunID(),
		Source:    name,
		Params:    p.params.Fingerprint(),
		StartedAt: time.Now(),
		Trials:    make([]ports.TrialResult, len(trials)),
	}
	log.Info().
		Str("run_id", run.ID.String()).
		Str("source", name).
		Str("params", run.Params.Short()).
		Int("trials", len(trials)).
		Int64("workers", p.workers).
		Msg("[Pipeline] run started")

	g, gctx := errgroup.WithContext(ctx)
	for i := range trials {
		if err := p.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			result, err := p.ProcessTrial(trials[i])
			if err != nil {
				return errors.Wrapf(err, "trial %d", trials[i].Index)
			}
			run.Trials[i] = result
			log.Debug().
				Int("trial", trials[i].Index).
				Int("fixations", result.Summary.Fixations).
				Int("saccades", result.Summary.Saccades).
				Int("blinks", result.Summary.Blinks).
				Msg("[Pipeline] trial processed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run.Duration = time.Since(run.StartedAt)
	log.Info().
		Str("run_id", run.ID.String()).
		Int("events", run.EventCount()).
		Dur("elapsed", run.Duration).
		Msg("[Pipeline] run completed")
	return run, nil
}

// ProcessTrial detects events on one trial and repairs its pupil trace
func (p *Pipeline) ProcessTrial(trial gaze.Trial) (ports.TrialResult, error) {
	if err := trial.Samples.Validate(); err != nil {
		return ports.TrialResult{}, errors.InvalidInput("malformed trial samples", err)
	}
	set, err := p.DetectEvents(trial.Samples)
	if err != nil {
		return ports.TrialResult{}, err
	}
	set.RecordedBlinks = trial.Events.RecordedBlinks
	annotated := trial.WithEvents(set)

	var pupil []float64
	if len(annotated.Samples.Size) > 0 && p.repairEnabled() {
		pupil, err = p.RepairPupil(annotated)
		if err != nil {
			return ports.TrialResult{}, errors.Wrap(err, "pupil repair failed")
		}
	}

	return ports.TrialResult{
		Trial:   annotated,
		Pupil:   pupil,
		Summary: Summarize(annotated, pupil, p.params.Traces.Invalid),
	}, nil
}

// DetectEvents runs every detector over one sample stream
func (p *Pipeline) DetectEvents(s gaze.Samples) (gaze.EventSet, error) {
	var set gaze.EventSet
	var err error

	set.BlinkStarts, set.Blinks, err = events.DetectBlinks(s.X, s.Y, s.Time, p.params.BlinkConfig())
	if err != nil {
		return gaze.EventSet{}, errors.Wrap(err, "blink detection failed")
	}
	set.FixationStarts, set.Fixations, err = events.DetectFixations(s.X, s.Y, s.Time, p.params.FixationConfig())
	if err != nil {
		return gaze.EventSet{}, errors.Wrap(err, "fixation detection failed")
	}
	set.SaccadeStarts, set.Saccades, err = events.DetectSaccades(s.X, s.Y, s.Time, p.params.SaccadeConfig())
	if err != nil {
		return gaze.EventSet{}, errors.Wrap(err, "saccade detection failed")
	}
	if p.params.Microsaccade.Enabled {
		set.Microsaccades, err = events.DetectMicrosaccades(s.X, s.Y, s.Time, p.params.MicrosaccadeConfig())
		if err != nil {
			return gaze.EventSet{}, errors.Wrap(err, "microsaccade detection failed")
		}
	}
	return set, nil
}

func (p *Pipeline) repairEnabled() bool {
	t := p.params.Traces
	return t.Interpolation.Enabled || t.Outliers.Enabled || t.Hampel.Enabled || t.Smooth.Enabled
}

// RepairPupil applies the enabled repair steps to the trial's pupil trace:
// blink interpolation, outlier removal, Hampel filtering, smoothing.
func (p *Pipeline) RepairPupil(trial gaze.Trial) ([]float64, error) {
	t := p.params.Traces
	pupil := append([]float64(nil), trial.Samples.Size...)
	var err error

	if t.Interpolation.Enabled {
		if pupil, err = traces.InterpolateTrialBlinks(trial, p.params.BlinkInterpolation()); err != nil {
			return nil, err
		}
	}
	if t.Outliers.Enabled {
		if pupil, err = traces.RemoveOutliers(pupil, p.params.OutlierOptions()); err != nil {
			return nil, err
		}
	}
	if t.Hampel.Enabled {
		if pupil, err = traces.Hampel(pupil, p.params.HampelOptions()); err != nil {
			return nil, err
		}
	}
	if t.Smooth.Enabled {
		if pupil, err = traces.Smooth(pupil, p.params.SmoothOptions()); err != nil {
			return nil, err
		}
	}
	return pupil, nil
}
