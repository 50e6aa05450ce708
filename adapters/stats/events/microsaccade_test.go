package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogaze/domain/gaze"
)

// rampStream holds still at 100 and shifts x by 6 px over samples 100-105
func rampStream() ([]float64, []float64, []int64) {
	n := 200
	x := constant(n, 100)
	y := constant(n, 100)
	for i := 100; i < n; i++ {
		if i <= 105 {
			x[i] = 100 + float64(i-99)
		} else {
			x[i] = 106
		}
	}
	return x, y, timeline(n, 2)
}

func TestDetectMicrosaccades_Ramp(t *testing.T) {
	x, y, tm := rampStream()
	ends, err := DetectMicrosaccades(x, y, tm, DefaultMicrosaccadeConfig())
	require.NoError(t, err)
	require.Len(t, ends, 1)

	m := ends[0]
	assert.Equal(t, gaze.KindMicrosaccade, m.Kind)
	assert.Equal(t, int64(196), m.StartTime)
	assert.Equal(t, int64(212), m.EndTime)
	assert.Equal(t, int64(16), m.Duration)
	assert.Equal(t, gaze.Point{X: 100, Y: 100}, m.Start)
	assert.Equal(t, gaze.Point{X: 106, Y: 100}, m.End)
}

func TestDetectMicrosaccades_ShortCandidatesDropped(t *testing.T) {
	x, y, tm := rampStream()
	x[50] = 100.5 // one-sample glitch produces two 2-sample candidates

	ends, err := DetectMicrosaccades(x, y, tm, DefaultMicrosaccadeConfig())
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(196), ends[0].StartTime)

	cfg := DefaultMicrosaccadeConfig()
	cfg.MinDur = 2
	ends, err = DetectMicrosaccades(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Len(t, ends, 3)

	cfg.MinDur = 20
	ends, err = DetectMicrosaccades(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Empty(t, ends)
}

// trailingStream holds still and starts drifting on x over the last ten samples
func trailingStream() ([]float64, []float64, []int64) {
	n := 200
	x := constant(n, 100)
	for i := 190; i < n; i++ {
		x[i] = 100 + float64(i-189)
	}
	return x, constant(n, 100), timeline(n, 2)
}

func TestDetectMicrosaccades_TrailingRunDropped(t *testing.T) {
	x, y, tm := trailingStream()
	ends, err := DetectMicrosaccades(x, y, tm, DefaultMicrosaccadeConfig())
	require.NoError(t, err)
	assert.Empty(t, ends)
}

func TestDetectMicrosaccades_TrailingRunFlushed(t *testing.T) {
	x, y, tm := trailingStream()
	cfg := DefaultMicrosaccadeConfig()
	cfg.FlushTrailing = true

	ends, err := DetectMicrosaccades(x, y, tm, cfg)
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(376), ends[0].StartTime)
	assert.Equal(t, int64(398), ends[0].EndTime)
	assert.Equal(t, gaze.Point{X: 100, Y: 100}, ends[0].Start)
	assert.Equal(t, gaze.Point{X: 110, Y: 100}, ends[0].End)
}

func TestDetectMicrosaccades_StillSignal(t *testing.T) {
	ends, err := DetectMicrosaccades(constant(100, 3), constant(100, 4), timeline(100, 1), DefaultMicrosaccadeConfig())
	require.NoError(t, err)
	assert.Empty(t, ends)
}

func TestDetectMicrosaccades_TooFewSamples(t *testing.T) {
	ends, err := DetectMicrosaccades([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, timeline(4, 1), DefaultMicrosaccadeConfig())
	require.NoError(t, err)
	assert.Empty(t, ends)
}

func TestMovingVelocityEdgesUndefined(t *testing.T) {
	v := movingVelocity([]float64{0, 1, 2, 3, 4, 5, 6}, timeline(7, 1))
	for _, i := range []int{0, 1, 5, 6} {
		assert.True(t, v[i] != v[i], "index %d should be NaN", i)
	}
	// unit slope: (2 + 1 + 1 + 2) / 6
	assert.InDelta(t, 1.0, v[3], 1e-12)
}

func TestDetectMicrosaccades_InvalidLambda(t *testing.T) {
	_, err := DetectMicrosaccades([]float64{1}, []float64{1}, []int64{0}, MicrosaccadeConfig{Lambda: 0})
	assert.Error(t, err)
}
