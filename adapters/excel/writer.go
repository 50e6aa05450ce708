package excel

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"gogaze/domain/gaze"
	"gogaze/internal/errors"
	"gogaze/ports"
)

// EventWriter exports run results to an xlsx workbook with one sheet for
// events, one for trial summaries and, when any trial carries a repaired
// trace, one for pupil samples.
type EventWriter struct {
	filePath string
}

func NewEventWriter(filePath string) *EventWriter {
	return &EventWriter{filePath: filePath}
}

var (
	eventHeader   = []interface{}{"run_id", "trial", "kind", "start_time", "end_time", "duration", "start_x", "start_y", "end_x", "end_y"}
	summaryHeader = []interface{}{"trial", "samples", "duration", "blinks", "fixations", "saccades", "microsaccades",
		"mean_fixation_duration", "median_fixation_duration", "mean_saccade_duration",
		"mean_saccade_amplitude", "max_saccade_amplitude", "blink_rate", "mean_pupil", "sd_pupil"}
	pupilHeader = []interface{}{"trial", "time", "size", "repaired"}
)

// WriteResults writes the workbook, replacing any existing file
func (w *EventWriter) WriteResults(ctx context.Context, run ports.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEvents); err != nil {
		return errors.StorageError("failed to name events sheet", err)
	}
	if err := w.writeEvents(f, run); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return errors.StorageError("failed to create summary sheet", err)
	}
	if err := w.writeSummaries(f, run); err != nil {
		return err
	}

	if hasPupil(run) {
		if _, err := f.NewSheet(SheetPupil); err != nil {
			return errors.StorageError("failed to create pupil sheet", err)
		}
		if err := w.writePupil(f, run); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return errors.StorageError("failed to save workbook "+w.filePath, err)
	}
	log.Info().
		Str("path", w.filePath).
		Int("trials", len(run.Trials)).
		Int("events", run.EventCount()).
		Msg("[EventWriter] workbook written")
	return nil
}

func (w *EventWriter) writeEvents(f *excelize.File, run ports.RunResult) error {
	rw := &rowWriter{f: f, sheet: SheetEvents}
	rw.write(eventHeader)
	for _, tr := range run.Trials {
		for _, ev := range tr.Trial.Events.All() {
			row := []interface{}{run.ID.String(), tr.Trial.Index, string(ev.Kind), ev.StartTime, ev.EndTime, ev.Duration}
			if ev.HasPositions() {
				row = append(row, ev.Start.X, ev.Start.Y, ev.End.X, ev.End.Y)
			}
			rw.write(row)
		}
	}
	return rw.err
}

func (w *EventWriter) writeSummaries(f *excelize.File, run ports.RunResult) error {
	rw := &rowWriter{f: f, sheet: SheetSummary}
	rw.write(summaryHeader)
	for _, tr := range run.Trials {
		rw.write(summaryRow(tr.Summary))
	}
	return rw.err
}

func (w *EventWriter) writePupil(f *excelize.File, run ports.RunResult) error {
	rw := &rowWriter{f: f, sheet: SheetPupil}
	rw.write(pupilHeader)
	for _, tr := range run.Trials {
		s := tr.Trial.Samples
		if tr.Pupil == nil || len(s.Size) != len(s.Time) {
			continue
		}
		for i := range s.Time {
			rw.write([]interface{}{tr.Trial.Index, s.Time[i], s.Size[i], tr.Pupil[i]})
		}
	}
	return rw.err
}

func summaryRow(s gaze.Summary) []interface{} {
	return []interface{}{s.TrialIndex, s.Samples, s.Duration, s.Blinks, s.Fixations, s.Saccades, s.Microsaccades,
		s.MeanFixationDuration, s.MedianFixationDuration, s.MeanSaccadeDuration,
		s.MeanSaccadeAmplitude, s.MaxSaccadeAmplitude, s.BlinkRate, s.MeanPupil, s.SDPupil}
}

func hasPupil(run ports.RunResult) bool {
	for _, tr := range run.Trials {
		if tr.Pupil != nil {
			return true
		}
	}
	return false
}

// rowWriter appends rows to a sheet and keeps the first error
type rowWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (rw *rowWriter) write(values []interface{}) {
	if rw.err != nil {
		return
	}
	rw.row++
	cell, err := excelize.CoordinatesToCellName(1, rw.row)
	if err != nil {
		rw.err = errors.StorageError("invalid cell reference", err)
		return
	}
	if err := rw.f.SetSheetRow(rw.sheet, cell, &values); err != nil {
		rw.err = errors.StorageError("failed to write row to "+rw.sheet, err)
	}
}
