package weather

// WindowHours is the default number of hours shown.
const WindowHours = 24

// ForecastWindow is the aligned slice of a bundle that gets rendered.
// Labels and every entry of Series have the same length. Hours is the length
// cap the window was cut with; Len may be shorter.
type ForecastWindow struct {
	Start       int                     `json:"start"`
	Hours       int                     `json:"hours"`
	Labels      []string                `json:"labels"`
	Series      map[Parameter][]Reading `json:"series"`
	Highlighted map[Parameter][]int     `json:"highlighted"`
}

// Len returns the number of hours in the window.
func (w ForecastWindow) Len() int {
	return len(w.Labels)
}

// Empty reports whether there is nothing to render.
func (w ForecastWindow) Empty() bool {
	return len(w.Labels) == 0
}

// At returns the reading of p at window position k.
func (w ForecastWindow) At(p Parameter, k int) Reading {
	s := w.Series[p]
	if k < 0 || k >= len(s) {
		return Absent
	}
	return s[k]
}

// IsHighlighted reports whether position k of column p is a maximum.
func (w ForecastWindow) IsHighlighted(p Parameter, k int) bool {
	for _, i := range w.Highlighted[p] {
		if i == k {
			return true
		}
	}
	return false
}
