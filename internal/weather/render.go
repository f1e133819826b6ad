package weather

import "time"

// BuildWindow locates "now" in the bundle, extracts the window and marks the
// column maxima. The same bundle and instant always give the same window.
func BuildWindow(b TimeSeriesBundle, now time.Time, tz *time.Location, maxLength int) ForecastWindow {
	start := SelectStart(b, NowHourMinute(now, tz))
	return Annotate(Extract(b, start, maxLength), HighlightedParameters)
}
