package weather

import (
	"encoding/json"
	"fmt"
	"sort"
)

// TimeSeriesBundle holds the raw hourly series of one fetch. Index i refers to
// the same hour in every series. A bundle is never mutated after NewBundle.
type TimeSeriesBundle struct {
	times  []string
	params map[Parameter][]Reading
}

// NewBundle copies times and params into a bundle. Every series must have
// exactly len(times) entries.
func NewBundle(times []string, params map[Parameter][]Reading) (TimeSeriesBundle, error) {
	b := TimeSeriesBundle{
		times:  append([]string(nil), times...),
		params: make(map[Parameter][]Reading, len(params)),
	}
	for p, series := range params {
		if len(series) != len(times) {
			return TimeSeriesBundle{}, fmt.Errorf("%w: %s has %d entries, time has %d",
				ErrMisalignedSeries, p, len(series), len(times))
		}
		b.params[p] = append([]Reading(nil), series...)
	}
	return b, nil
}

// Len returns the number of hourly entries.
func (b TimeSeriesBundle) Len() int {
	return len(b.times)
}

// Times returns a copy of the timestamps.
func (b TimeSeriesBundle) Times() []string {
	return append([]string(nil), b.times...)
}

// Has reports whether the bundle carries series p.
func (b TimeSeriesBundle) Has(p Parameter) bool {
	_, ok := b.params[p]
	return ok
}

// Series returns a copy of series p, or nil when the bundle does not carry it.
func (b TimeSeriesBundle) Series(p Parameter) []Reading {
	s, ok := b.params[p]
	if !ok {
		return nil
	}
	return append([]Reading(nil), s...)
}

// At returns the reading of p at index i. Unknown series and out of range
// indexes read as absent.
func (b TimeSeriesBundle) At(p Parameter, i int) Reading {
	s := b.params[p]
	if i < 0 || i >= len(s) {
		return Absent
	}
	return s[i]
}

// Parameters returns the carried series names, sorted.
func (b TimeSeriesBundle) Parameters() []Parameter {
	out := make([]Parameter, 0, len(b.params))
	for p := range b.params {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HourMinute returns the "HH:MM" part of timestamp i. Timestamps are
// "YYYY-MM-DDTHH:MM" in the fixed civil timezone; anything shorter yields "".
func (b TimeSeriesBundle) HourMinute(i int) string {
	if i < 0 || i >= len(b.times) {
		return ""
	}
	return hourMinute(b.times[i])
}

func hourMinute(ts string) string {
	if len(ts) < 16 {
		return ""
	}
	return ts[11:16]
}

type bundleJSON struct {
	Time   []string                `json:"time"`
	Series map[Parameter][]Reading `json:"series"`
}

// MarshalJSON lets snapshots be cached as JSON.
func (b TimeSeriesBundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(bundleJSON{Time: b.times, Series: b.params})
}

// UnmarshalJSON rebuilds the bundle through NewBundle so cached data keeps
// the alignment invariant.
func (b *TimeSeriesBundle) UnmarshalJSON(data []byte) error {
	var raw bundleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nb, err := NewBundle(raw.Time, raw.Series)
	if err != nil {
		return err
	}
	*b = nb
	return nil
}
