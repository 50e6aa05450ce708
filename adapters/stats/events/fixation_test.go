package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogaze/domain/gaze"
)

func TestDetectFixations_ConstantStream(t *testing.T) {
	x := constant(50, 320)
	y := constant(50, 240)
	tm := timeline(50, 4)
	cfg := DefaultFixationConfig()

	// trailing fixation is never closed without the flush flag
	starts, ends, err := DetectFixations(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Len(t, starts, 1)
	assert.Empty(t, ends)

	cfg.FlushTrailing = true
	_, ends, err = DetectFixations(x, y, tm, cfg)
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, gaze.KindFixation, ends[0].Kind)
	assert.Equal(t, gaze.Point{X: 320, Y: 240}, ends[0].End)
	assert.Equal(t, int64(4), ends[0].StartTime)
	assert.Equal(t, int64(196), ends[0].EndTime)
	assert.Equal(t, int64(192), ends[0].Duration)
}

func TestDetectFixations_TwoTargets(t *testing.T) {
	n := 60
	x := make([]float64, n)
	y := constant(n, 100)
	for i := range x {
		if i < 30 {
			x[i] = 100
		} else {
			x[i] = 400
		}
	}
	tm := timeline(n, 4)

	_, ends, err := DetectFixations(x, y, tm, DefaultFixationConfig())
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, int64(4), ends[0].StartTime)
	assert.Equal(t, int64(116), ends[0].EndTime)
	assert.Equal(t, 100.0, ends[0].End.X)

	cfg := DefaultFixationConfig()
	cfg.FlushTrailing = true
	_, ends, err = DetectFixations(x, y, tm, cfg)
	require.NoError(t, err)
	require.Len(t, ends, 2)
	assert.Equal(t, int64(124), ends[1].StartTime)
	assert.Equal(t, 400.0, ends[1].End.X)
}

func TestDetectFixations_ShortCandidateWithdrawn(t *testing.T) {
	n := 60
	x := make([]float64, n)
	y := constant(n, 100)
	for i := range x {
		switch {
		case i < 6:
			x[i] = 100
		case i < 30:
			x[i] = 400
		default:
			x[i] = 700
		}
	}

	starts, ends, err := DetectFixations(x, y, timeline(n, 4), DefaultFixationConfig())
	require.NoError(t, err)
	require.Len(t, ends, 1)
	assert.Equal(t, 400.0, ends[0].End.X)
	assert.Equal(t, int64(28), ends[0].StartTime)
	assert.Equal(t, []gaze.Start{
		{Kind: gaze.KindFixation, Time: 28},
		{Kind: gaze.KindFixation, Time: 124},
	}, starts)
}

func TestDetectFixations_MissingHandling(t *testing.T) {
	n := 40
	x := constant(n, 100)
	y := constant(n, 100)
	x[20], y[20] = 0, 0
	tm := timeline(n, 4)

	cfg := DefaultFixationConfig()
	cfg.FlushTrailing = true
	_, ends, err := DetectFixations(x, y, tm, cfg)
	require.NoError(t, err)
	assert.Len(t, ends, 2, "unresolved sentinel splits the fixation")

	for _, mode := range []MissingMode{MissingReplace, MissingInterpolate} {
		cfg.MissingMode = mode
		_, ends, err = DetectFixations(x, y, tm, cfg)
		require.NoError(t, err)
		assert.Len(t, ends, 1, "mode %s", mode)
	}
	assert.Equal(t, 0.0, x[20], "input must not be modified")
}

func TestDetectFixations_DurationInvariant(t *testing.T) {
	n := 300
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64((i / 23) * 80)
		y[i] = float64((i / 31) * 60)
	}
	cfg := DefaultFixationConfig()
	cfg.FlushTrailing = true
	_, ends, err := DetectFixations(x, y, timeline(n, 4), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, ends)
	for _, e := range ends {
		assert.GreaterOrEqual(t, e.Duration, cfg.MinDur)
		assert.GreaterOrEqual(t, e.EndTime, e.StartTime)
	}
}

func TestDetectFixations_InvalidMode(t *testing.T) {
	cfg := DefaultFixationConfig()
	cfg.MissingMode = "drop"
	_, _, err := DetectFixations([]float64{1}, []float64{1}, []int64{0}, cfg)
	assert.Error(t, err)
}
