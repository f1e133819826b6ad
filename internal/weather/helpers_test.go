package weather

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// hourlyTimes returns n consecutive "YYYY-MM-DDTHH:00" stamps starting at
// firstHour on 2024-06-01, rolling into the next days.
func hourlyTimes(firstHour, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		h := firstHour + i
		out[i] = fmt.Sprintf("2024-06-%02dT%02d:00", 1+h/24, h%24)
	}
	return out
}

func values(vs ...float64) []Reading {
	out := make([]Reading, len(vs))
	for i, v := range vs {
		out[i] = Value(v)
	}
	return out
}

func mustBundle(t *testing.T, times []string, params map[Parameter][]Reading) TimeSeriesBundle {
	t.Helper()
	b, err := NewBundle(times, params)
	require.NoError(t, err)
	return b
}

// column builds a window holding a single column p.
func column(p Parameter, col []Reading) ForecastWindow {
	labels := make([]string, len(col))
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i%24)
	}
	return ForecastWindow{
		Labels: labels,
		Series: map[Parameter][]Reading{p: col},
	}
}
