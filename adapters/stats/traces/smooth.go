package traces

import (
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	apperrors "gogaze/internal/errors"
)

// Smooth convolves the signal with a normalised kernel. The signal is
// mirrored at both ends before convolution. With LengthCorrect the centred
// part of the result, as long as the input, is returned; otherwise the full
// result of length len(signal)+WindowLen-1. Windows shorter than 3 samples
// return the signal unchanged.
func Smooth(signal []float64, opts SmoothOptions) ([]float64, error) {
	if err := opts.Kernel.Validate(); err != nil {
		return nil, err
	}
	out, err := cloneSignal(signal)
	if err != nil {
		return nil, err
	}
	w := opts.WindowLen
	if w < 3 {
		return out, nil
	}
	n := len(out)
	if n < w {
		return nil, apperrors.InvalidArgument("signal of %d samples is shorter than the smoothing window %d", n, w)
	}

	kernel := makeKernel(opts.Kernel, w)
	padded := mirror(out, w)

	full := make([]float64, len(padded)-w+1)
	for k := range full {
		full[k] = floats.Dot(kernel, padded[k:k+w])
	}
	if !opts.LengthCorrect {
		return full, nil
	}
	off := (w - 1) / 2
	return full[off : off+n], nil
}

// makeKernel builds a window of the given shape scaled to unit sum
func makeKernel(k Kernel, w int) []float64 {
	seq := make([]float64, w)
	for i := range seq {
		seq[i] = 1
	}
	switch k {
	case KernelFlat:
		window.Rectangular(seq)
	case KernelHanning:
		window.Hann(seq)
	case KernelHamming:
		window.Hamming(seq)
	case KernelBartlett:
		window.Triangular(seq)
	case KernelBlackman:
		window.Blackman(seq)
	}
	if sum := floats.Sum(seq); sum != 0 {
		floats.Scale(1/sum, seq)
	}
	return seq
}

// mirror reflects w-1 samples onto each end. The head reflection excludes
// the first sample, the tail reflection starts with the last one.
func mirror(signal []float64, w int) []float64 {
	n := len(signal)
	padded := make([]float64, 0, n+2*(w-1))
	for i := w - 1; i > 0; i-- {
		padded = append(padded, signal[i])
	}
	padded = append(padded, signal...)
	for i := n - 1; i > n-w; i-- {
		padded = append(padded, signal[i])
	}
	return padded
}
