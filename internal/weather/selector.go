package weather

import "time"

// hourMinuteLayout is a zero-padded 24-hour clock. Two strings in this layout
// compare lexically in the same order as the times of day they denote.
const hourMinuteLayout = "15:04"

// NowHourMinute formats now as "HH:MM" in tz. The process timezone is never
// consulted, so every host derives the same value for the same instant.
func NowHourMinute(now time.Time, tz *time.Location) string {
	if tz == nil {
		tz = time.UTC
	}
	return now.In(tz).Format(hourMinuteLayout)
}

// SelectStart returns the index of the first entry whose hour of day is at or
// after nowHourMinute. It falls back to 0 when no entry qualifies or the bundle
// is empty.
//
// Both operands must be "HH:MM" strings of equal width; only then is the
// string comparison a chronological one.
func SelectStart(b TimeSeriesBundle, nowHourMinute string) int {
	for i := 0; i < b.Len(); i++ {
		if b.HourMinute(i) >= nowHourMinute {
			return i
		}
	}
	return 0
}
