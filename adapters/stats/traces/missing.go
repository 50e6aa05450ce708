package traces

// InterpolateMissing bridges every run of invalid samples. Runs are widened
// by Margin on each side, clamped to the signal. Invalid first and last
// samples are replaced by the mean of the valid samples so the edges can
// anchor an interpolant. Runs shorter than MinDur are always bridged linearly.
func InterpolateMissing(signal []float64, opts MissingInterpolation) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out, err := cloneSignal(signal)
	if err != nil {
		return nil, err
	}

	n := len(out)
	inval := make([]bool, n)
	hasInvalid := false
	for i, v := range out {
		inval[i] = isInvalid(v, opts.Invalid)
		hasInvalid = hasInvalid || inval[i]
	}
	if !hasInvalid {
		return out, nil
	}

	filler := &gapFiller{
		signal:     out,
		invalid:    opts.Invalid,
		mode:       opts.Mode,
		minDur:     opts.MinDur,
		checkOuter: true,
	}
	mean, err := filler.validMean()
	if err != nil {
		return nil, err
	}

	spans := missingSpans(inval, opts.Margin)
	if inval[0] {
		out[0] = mean
	}
	if inval[n-1] {
		out[n-1] = mean
	}
	if err := filler.fillAll(spans); err != nil {
		return nil, err
	}
	return out, nil
}

// missingSpans pairs the validity transitions into widened spans. A run that
// touches either edge of the signal is anchored on that edge sample.
func missingSpans(inval []bool, margin int) []span {
	n := len(inval)
	var changes []int
	for i := 0; i < n-1; i++ {
		if inval[i] != inval[i+1] {
			changes = append(changes, i)
		}
	}

	var starts, ends []int
	first := 0
	if inval[0] {
		starts = append(starts, 0)
		first = 1
	}
	for i := first; i < len(changes); i += 2 {
		starts = append(starts, max(changes[i]-margin, 0))
	}
	for i := 1 - first; i < len(changes); i += 2 {
		ends = append(ends, min(changes[i]+1+margin, n-1))
	}
	if inval[n-1] {
		ends = append(ends, n-1)
	}

	spans := make([]span, 0, len(starts))
	for i := range starts {
		if i < len(ends) {
			spans = append(spans, span{start: starts[i], end: ends[i]})
		}
	}
	return spans
}
