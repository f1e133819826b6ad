package weather

// Extract slices the bundle into a window of at most maxLength hours starting
// at start. maxLength <= 0 means WindowHours. Highlighted is left empty.
//
// An empty bundle, or a start past the last entry, yields an empty window; the
// caller is expected to render a "no data" marker for it.
func Extract(b TimeSeriesBundle, start, maxLength int) ForecastWindow {
	if maxLength <= 0 {
		maxLength = WindowHours
	}
	if start < 0 {
		start = 0
	}

	n := b.Len() - start
	if n < 0 {
		n = 0
	}
	if n > maxLength {
		n = maxLength
	}

	w := ForecastWindow{
		Start:       start,
		Hours:       maxLength,
		Labels:      make([]string, n),
		Series:      make(map[Parameter][]Reading, len(b.params)),
		Highlighted: map[Parameter][]int{},
	}
	for k := 0; k < n; k++ {
		w.Labels[k] = b.HourMinute(start + k)
	}
	for p, src := range b.params {
		dst := make([]Reading, n)
		if n > 0 {
			copy(dst, src[start:start+n])
		}
		w.Series[p] = dst
	}
	return w
}
