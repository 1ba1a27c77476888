package services

import "time"

// DateAtLocation strips the time of day, pinning value to local midnight.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayWindow returns the half-open [midnight, next midnight) range holding
// value.
func DayWindow(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// TodayWindow is the aggregate window for manual sync.
func TodayWindow(now time.Time, location *time.Location) (time.Time, time.Time) {
	return DayWindow(now, location)
}

// YesterdayWindow is the aggregate window for the nightly batch job, which
// runs after midnight once the previous day's data is final.
func YesterdayWindow(now time.Time, location *time.Location) (time.Time, time.Time) {
	todayStart := DateAtLocation(now, location)
	return todayStart.AddDate(0, 0, -1), todayStart
}
