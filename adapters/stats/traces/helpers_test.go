package traces

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// blinkTrace returns a flat pupil trace at 5000 with a blink starting after
// sample at: a five sample drop to zero, ten closed samples, a five sample
// recovery and a one unit dip shortly after.
func blinkTrace(n, at int) []float64 {
	s := constant(n, 5000)
	for k := 0; k < 5; k++ {
		s[at+1+k] = float64(4000 - 1000*k)
	}
	for k := 0; k < 10; k++ {
		s[at+6+k] = 0
	}
	for k := 0; k < 5; k++ {
		s[at+16+k] = float64(1000 + 1000*k)
	}
	s[at+23] = 4999
	return s
}
