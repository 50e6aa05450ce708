package excel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gogaze/domain/core"
	"gogaze/domain/gaze"
	"gogaze/ports"
)

func sampleRun(withPupil bool) ports.RunResult {
	trial := gaze.NewTrial(0, gaze.Samples{
		Time: []int64{0, 2, 4},
		X:    []float64{1, 2, 3},
		Y:    []float64{1, 2, 3},
		Size: []float64{3000, -1, 3000},
	}, nil)
	trial = trial.WithEvents(gaze.EventSet{
		Blinks:    []gaze.Event{{Kind: gaze.KindBlink, StartTime: 2, EndTime: 2}},
		Fixations: []gaze.Event{{Kind: gaze.KindFixation, StartTime: 0, EndTime: 4, Duration: 4, End: gaze.Point{X: 1, Y: 1}}},
		Saccades:  []gaze.Event{{Kind: gaze.KindSaccade, StartTime: 0, EndTime: 4, Duration: 4, Start: gaze.Point{X: 1, Y: 1}, End: gaze.Point{X: 3, Y: 3}}},
	})
	tr := ports.TrialResult{Trial: trial, Summary: gaze.Summary{TrialIndex: 0, Samples: 3, Blinks: 1, Fixations: 1, Saccades: 1}}
	if withPupil {
		tr.Pupil = []float64{3000, 3000, 3000}
	}
	return ports.RunResult{ID: core.NewRunID(), Source: "test", StartedAt: time.Now(), Trials: []ports.TrialResult{tr}}
}

func TestEventWriter_WritesSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.xlsx")
	run := sampleRun(true)
	require.NoError(t, NewEventWriter(path).WriteResults(context.Background(), run))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetEvents)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, run.ID.String(), rows[1][0])
	assert.Equal(t, "blink", rows[1][2])
	assert.Len(t, rows[1], 6, "blinks carry no positions")
	assert.Equal(t, "fixation", rows[2][2])
	assert.Equal(t, "saccade", rows[3][2])
	assert.Equal(t, "3", rows[3][8])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "3", summary[1][1])

	pupil, err := f.GetRows(SheetPupil)
	require.NoError(t, err)
	require.Len(t, pupil, 4)
	assert.Equal(t, "-1", pupil[2][2])
	assert.Equal(t, "3000", pupil[2][3])
}

func TestEventWriter_NoPupilSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.xlsx")
	require.NoError(t, NewEventWriter(path).WriteResults(context.Background(), sampleRun(false)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), SheetPupil)
	assert.Contains(t, f.GetSheetList(), SheetEvents)
}
