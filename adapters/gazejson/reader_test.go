package gazejson

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogaze/domain/gaze"
	"gogaze/internal/errors"
)

const doc = `{
  "session": "p01",
  "trials": [
    {"index": 3, "time": [0, 2, 4], "x": [1, null, 3], "y": [4, 5, 6], "size": [3000, null, 2990],
     "messages": [{"time": 0, "text": "TRIALID 3"}],
     "blinks": [{"start_time": 2, "end_time": 2}]},
    {"time": [0, 4], "x": [7, 8], "y": [9, 10]}
  ]
}`

func TestReader_Parse(t *testing.T) {
	trials, err := NewReader(Config{Missing: 0, InvalidSize: -1}).Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, trials, 2)

	first := trials[0]
	assert.Equal(t, 3, first.Index)
	assert.Equal(t, []int64{0, 2, 4}, first.Samples.Time)
	assert.Equal(t, []float64{1, 0, 3}, first.Samples.X)
	assert.Equal(t, []float64{3000, -1, 2990}, first.Samples.Size)
	assert.Equal(t, []gaze.Message{{Time: 0, Text: "TRIALID 3"}}, first.Messages)
	require.Len(t, first.Events.RecordedBlinks, 1)
	assert.Equal(t, gaze.KindBlink, first.Events.RecordedBlinks[0].Kind)
	assert.Empty(t, first.Events.Blinks)

	second := trials[1]
	assert.Equal(t, 1, second.Index)
	assert.Empty(t, second.Samples.Size)
	assert.Empty(t, second.Events.RecordedBlinks)
}

func TestReader_SingleObjectPath(t *testing.T) {
	trials, err := NewReader(Config{DataPath: "trials.1"}).Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, trials, 1)
	assert.Equal(t, []float64{7, 8}, trials[0].Samples.X)
}

func TestReader_ReadTrialsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	trials, err := NewReader(Config{FilePath: path}).ReadTrials(context.Background())
	require.NoError(t, err)
	assert.Len(t, trials, 2)
}

func TestReader_Errors(t *testing.T) {
	cases := map[string]struct {
		body string
		path string
		code string
	}{
		"invalid json":   {body: `{"trials": [`, code: errors.CodeUnreadableInput},
		"missing path":   {body: `{"other": []}`, code: errors.CodeUnreadableInput},
		"scalar path":    {body: `{"trials": 5}`, code: errors.CodeUnreadableInput},
		"misaligned":     {body: `{"trials": [{"time": [0, 1], "x": [1], "y": [1, 2]}]}`, code: errors.CodeInvalidInput},
		"time backwards": {body: `{"trials": [{"time": [2, 1], "x": [1, 1], "y": [1, 2]}]}`, code: errors.CodeInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewReader(Config{DataPath: tc.path}).Parse([]byte(tc.body))
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetCode(err))
		})
	}

	_, err := NewReader(Config{FilePath: filepath.Join(t.TempDir(), "none.json")}).ReadTrials(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnreadableInput, errors.GetCode(err))
}
