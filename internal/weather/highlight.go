package weather

// Highlight computes, per parameter, the window positions holding the column
// maximum. Each column is handled on its own:
//
//   - absent readings are ignored; a column with no readings gets nothing
//   - a constant column gets nothing
//   - a precipitation column whose maximum is 0 gets nothing
//   - otherwise every position equal to the maximum is flagged
//
// The weather code column is categorical and is never highlighted. Values
// come straight from the provider series, so exact equality is used.
func Highlight(w ForecastWindow, params []Parameter) map[Parameter][]int {
	out := make(map[Parameter][]int, len(params))
	for _, p := range params {
		if p == WeatherCode {
			continue
		}
		if idx := columnMaxima(p, w.Series[p]); len(idx) > 0 {
			out[p] = idx
		}
	}
	return out
}

func columnMaxima(p Parameter, col []Reading) []int {
	var (
		first    float64
		maxVal   float64
		seen     bool
		allEqual = true
	)
	for _, r := range col {
		if !r.Present {
			continue
		}
		if !seen {
			first, maxVal, seen = r.Value, r.Value, true
			continue
		}
		if r.Value != first {
			allEqual = false
		}
		if r.Value > maxVal {
			maxVal = r.Value
		}
	}
	if !seen || allEqual {
		return nil
	}
	if p == Precipitation && maxVal == 0 {
		return nil
	}

	var idx []int
	for k, r := range col {
		if r.Present && r.Value == maxVal {
			idx = append(idx, k)
		}
	}
	return idx
}

// Annotate returns a copy of w carrying the highlight sets for params.
func Annotate(w ForecastWindow, params []Parameter) ForecastWindow {
	out := w
	out.Highlighted = Highlight(w, params)
	return out
}
