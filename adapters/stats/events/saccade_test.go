package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogaze/domain/gaze"
)

// jumpStream holds still at 100 then jumps to 500 at sample 10
func jumpStream(n int) ([]float64, []float64, []int64) {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		if i < 10 {
			x[i], y[i] = 100, 100
		} else {
			x[i], y[i] = 500, 500
		}
	}
	return x, y, timeline(n, 2)
}

func TestDetectSaccades_Jump(t *testing.T) {
	x, y, tm := jumpStream(20)
	starts, ends, err := DetectSaccades(x, y, tm, DefaultSaccadeConfig())
	require.NoError(t, err)
	require.Len(t, starts, 1)
	require.Len(t, ends, 1)

	s := ends[0]
	assert.Equal(t, gaze.KindSaccade, s.Kind)
	assert.Equal(t, int64(18), s.StartTime, "start sits on the last sample before the jump")
	assert.Equal(t, int64(24), s.EndTime)
	assert.Equal(t, int64(6), s.Duration)
	assert.Equal(t, gaze.Point{X: 100, Y: 100}, s.Start)
	assert.Equal(t, gaze.Point{X: 500, Y: 500}, s.End)
}

func TestDetectSaccades_TooShortIsDiscarded(t *testing.T) {
	x, y, tm := jumpStream(20)
	cfg := DefaultSaccadeConfig()
	cfg.MinLen = 10
	starts, ends, err := DetectSaccades(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Empty(t, starts)
	assert.Empty(t, ends)
}

func TestDetectSaccades_TrailingMovement(t *testing.T) {
	x := constant(12, 100)
	y := constant(12, 100)
	x[10], x[11] = 500, 900
	tm := timeline(12, 2)
	cfg := DefaultSaccadeConfig()
	cfg.MinLen = 2

	starts, ends, err := DetectSaccades(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Len(t, starts, 1, "provisional start is kept")
	assert.Empty(t, ends, "saccade without an end is dropped by default")

	cfg.FlushTrailing = true
	_, ends, err = DetectSaccades(x, y, tm, cfg)
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(18), ends[0].StartTime)
	assert.Equal(t, int64(22), ends[0].EndTime)
	assert.Equal(t, 900.0, ends[0].End.X)
}

func TestDetectSaccades_ShortStreams(t *testing.T) {
	starts, ends, err := DetectSaccades([]float64{1, 2}, []float64{1, 2}, []int64{0, 2}, DefaultSaccadeConfig())
	require.NoError(t, err)
	assert.Empty(t, starts)
	assert.Empty(t, ends)
}

func TestDetectSaccades_DurationInvariant(t *testing.T) {
	n := 400
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		// fixations of 40 samples joined by 4-sample sweeps
		seg := i / 44
		off := i % 44
		base := float64(seg * 200)
		if off >= 40 {
			base += float64(off-39) * 40
		}
		x[i] = base
		y[i] = base / 2
	}
	cfg := DefaultSaccadeConfig()
	_, ends, err := DetectSaccades(x, y, timeline(n, 2), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, ends)
	for _, e := range ends {
		assert.GreaterOrEqual(t, e.Duration, cfg.MinLen)
		assert.GreaterOrEqual(t, e.EndTime, e.StartTime)
	}
}

func TestDetectSaccades_MismatchedLengths(t *testing.T) {
	_, _, err := DetectSaccades([]float64{1, 2, 3}, []float64{1, 2, 3}, []int64{0, 1}, DefaultSaccadeConfig())
	assert.Error(t, err)
}
