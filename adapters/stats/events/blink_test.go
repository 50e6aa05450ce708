package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogaze/domain/gaze"
	apperrors "gogaze/internal/errors"
)

// blinkStream has a single missing run of length l starting at sample 10
func blinkStream(n, l int) ([]float64, []float64, []int64) {
	x := constant(n, 500)
	y := constant(n, 400)
	for i := 10; i < 10+l; i++ {
		x[i], y[i] = 0, 0
	}
	return x, y, timeline(n, 1)
}

func TestDetectBlinks_SingleRun(t *testing.T) {
	const minLen = 5
	for _, l := range []int{3, 4, 5, 6, 20} {
		x, y, tm := blinkStream(60, l)
		starts, ends, err := DetectBlinks(x, y, tm, BlinkConfig{Missing: 0, MinLen: minLen})
		require.NoError(t, err)
		require.Len(t, starts, 1, "every onset is recorded")

		if l < minLen {
			assert.Empty(t, ends, "run of %d samples is too short", l)
			continue
		}
		require.Len(t, ends, 1)
		assert.Equal(t, gaze.KindBlink, ends[0].Kind)
		assert.Equal(t, int64(10), ends[0].StartTime)
		assert.Equal(t, int64(10+l-1), ends[0].EndTime)
		assert.Equal(t, int64(l-1), ends[0].Duration)
	}
}

func TestDetectBlinks_OnlyBothAxesMissing(t *testing.T) {
	x, y, tm := blinkStream(40, 12)
	for i := 10; i < 22; i++ {
		y[i] = 300
	}
	starts, ends, err := DetectBlinks(x, y, tm, BlinkConfig{MinLen: 1})
	require.NoError(t, err)
	assert.Empty(t, starts)
	assert.Empty(t, ends)
}

func TestDetectBlinks_TrailingRun(t *testing.T) {
	n := 30
	x := constant(n, 1)
	y := constant(n, 1)
	for i := 20; i < n; i++ {
		x[i], y[i] = 0, 0
	}
	tm := timeline(n, 2)

	starts, ends, err := DetectBlinks(x, y, tm, BlinkConfig{MinLen: 5})
	require.NoError(t, err)
	assert.Len(t, starts, 1)
	assert.Empty(t, ends, "open run is dropped by default")

	_, ends, err = DetectBlinks(x, y, tm, BlinkConfig{MinLen: 5, FlushTrailing: true})
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(40), ends[0].StartTime)
	assert.Equal(t, int64(58), ends[0].EndTime)
}

func TestDetectBlinks_LeadingRunHasNoOnset(t *testing.T) {
	x := []float64{0, 0, 0, 5, 5, 0, 0, 0, 5}
	y := []float64{0, 0, 0, 5, 5, 0, 0, 0, 5}
	starts, ends, err := DetectBlinks(x, y, timeline(9, 1), BlinkConfig{MinLen: 3})
	require.NoError(t, err)
	require.Len(t, starts, 1)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(5), ends[0].StartTime)
	assert.Equal(t, int64(7), ends[0].EndTime)
}

func TestDetectBlinks_DurationInvariant(t *testing.T) {
	x := make([]float64, 200)
	y := make([]float64, 200)
	for i := range x {
		if (i/17)%2 == 0 {
			x[i], y[i] = float64(i), float64(i)
		}
	}
	_, ends, err := DetectBlinks(x, y, timeline(200, 4), BlinkConfig{MinLen: 10})
	require.NoError(t, err)
	require.NotEmpty(t, ends)
	for _, e := range ends {
		assert.GreaterOrEqual(t, e.EndTime, e.StartTime)
		assert.Equal(t, e.EndTime-e.StartTime, e.Duration)
	}
}

func TestDetectBlinks_MismatchedLengths(t *testing.T) {
	_, _, err := DetectBlinks([]float64{0, 0}, []float64{0}, []int64{0, 1}, DefaultBlinkConfig())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
