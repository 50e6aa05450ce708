package events

// timeline returns n timestamps spaced step apart, starting at zero
func timeline(n int, step int64) []int64 {
	t := make([]int64, n)
	for i := range t {
		t[i] = int64(i) * step
	}
	return t
}

// constant returns n copies of v
func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
