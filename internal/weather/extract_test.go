package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_CapsWindowLength(t *testing.T) {
	temps := make([]Reading, 45)
	for i := range temps {
		temps[i] = Value(float64(i))
	}
	b := mustBundle(t, hourlyTimes(0, 45), map[Parameter][]Reading{Temperature: temps})

	w := Extract(b, 5, 24)

	require.Equal(t, 24, w.Len())
	assert.Equal(t, 5, w.Start)
	assert.Equal(t, "05:00", w.Labels[0])
	assert.Equal(t, "04:00", w.Labels[23]) // index 28, next day
	assert.Equal(t, Value(5), w.At(Temperature, 0))
	assert.Equal(t, Value(28), w.At(Temperature, 23))
}

func TestExtract_ShortTail(t *testing.T) {
	b := mustBundle(t, hourlyTimes(0, 10), map[Parameter][]Reading{
		Temperature: values(0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
	})

	w := Extract(b, 7, 24)

	assert.Equal(t, []string{"07:00", "08:00", "09:00"}, w.Labels)
	assert.Equal(t, values(7, 8, 9), w.Series[Temperature])
}

func TestExtract_DefaultLength(t *testing.T) {
	b := mustBundle(t, hourlyTimes(0, 48), nil)
	assert.Equal(t, WindowHours, Extract(b, 0, 0).Len())
	assert.Equal(t, WindowHours, Extract(b, 0, -3).Len())
}

func TestExtract_EmptyBundle(t *testing.T) {
	b := mustBundle(t, nil, map[Parameter][]Reading{Temperature: {}})

	w := Extract(b, 0, 24)

	assert.True(t, w.Empty())
	assert.Equal(t, 0, w.Len())
	assert.Len(t, w.Series[Temperature], 0)
}

func TestExtract_StartOutOfRange(t *testing.T) {
	b := mustBundle(t, hourlyTimes(0, 3), map[Parameter][]Reading{Temperature: values(1, 2, 3)})

	assert.True(t, Extract(b, 3, 24).Empty())
	assert.True(t, Extract(b, 10, 24).Empty())
	assert.Equal(t, 3, Extract(b, -2, 24).Len())
}

func TestExtract_PreservesAbsentValues(t *testing.T) {
	b := mustBundle(t, hourlyTimes(12, 4), map[Parameter][]Reading{
		Precipitation: {Value(0), Absent, Value(0.4), Absent},
	})

	w := Extract(b, 0, 24)

	assert.Equal(t, []Reading{Value(0), Absent, Value(0.4), Absent}, w.Series[Precipitation])
	assert.True(t, w.At(Precipitation, 0).Present)
	assert.False(t, w.At(Precipitation, 1).Present)
}

func TestExtract_AlignmentInvariant(t *testing.T) {
	b := mustBundle(t, hourlyTimes(0, 30), map[Parameter][]Reading{
		Temperature:   make([]Reading, 30),
		Precipitation: make([]Reading, 30),
		UVIndex:       make([]Reading, 30),
	})

	for start := 0; start <= 31; start++ {
		w := Extract(b, start, 24)
		for p, s := range w.Series {
			assert.Len(t, s, w.Len(), "param %s start %d", p, start)
		}
	}
}

func TestExtract_DoesNotShareStorageWithBundle(t *testing.T) {
	b := mustBundle(t, hourlyTimes(0, 3), map[Parameter][]Reading{Temperature: values(1, 2, 3)})

	w := Extract(b, 0, 24)
	w.Series[Temperature][0] = Value(100)

	assert.Equal(t, Value(1), b.At(Temperature, 0))
}
