package traces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gogaze/internal/errors"
)

var focuses = []Focus{FocusCentre, FocusLeft, FocusRight}

func TestHampel_ConstantSignalUnchanged(t *testing.T) {
	for _, c := range []float64{0, 7} {
		signal := constant(20, c)
		for _, focus := range focuses {
			for _, corrected := range []bool{false, true} {
				out, err := Hampel(signal, HampelOptions{WindowLen: 4, Threshold: 3, Focus: focus, Corrected: corrected})
				require.NoError(t, err)
				assert.Equal(t, signal, out, "focus %s corrected %v", focus, corrected)
			}
		}
	}
}

func TestHampel_RemovesSpike(t *testing.T) {
	for _, focus := range focuses {
		for _, corrected := range []bool{false, true} {
			signal := constant(30, 10)
			signal[15] = 100
			out, err := Hampel(signal, HampelOptions{WindowLen: 6, Threshold: 3, Focus: focus, Corrected: corrected})
			require.NoError(t, err)
			assert.Equal(t, 10.0, out[15], "focus %s corrected %v", focus, corrected)
			assert.Equal(t, 100.0, signal[15], "input must not be modified")
		}
	}
}

func TestHampel_LiteralVersusCorrected(t *testing.T) {
	signal := make([]float64, 30)
	for i := range signal {
		signal[i] = 10 + float64(i%2)
	}
	opts := HampelOptions{WindowLen: 6, Threshold: 3, Focus: FocusCentre}

	literal, err := Hampel(signal, opts)
	require.NoError(t, err)
	assert.Equal(t, 10.5, literal[3], "raw value exceeds the threshold and is replaced")

	opts.Corrected = true
	corrected, err := Hampel(signal, opts)
	require.NoError(t, err)
	assert.Equal(t, signal, corrected)
}

func TestHampel_InvalidOptions(t *testing.T) {
	signal := constant(10, 1)
	for _, opts := range []HampelOptions{
		{WindowLen: 1, Threshold: 3, Focus: FocusCentre},
		{WindowLen: 11, Threshold: 3, Focus: FocusCentre},
		{WindowLen: 4, Threshold: -1, Focus: FocusCentre},
		{WindowLen: 4, Threshold: 3, Focus: "middle"},
	} {
		_, err := Hampel(signal, opts)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.GetCode(err))
	}
}
