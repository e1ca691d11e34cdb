package util

import "time"

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate returns the date for a target day in a given month, handling
// months with fewer days (e.g., day 31 in February returns Feb 28/29).
func ClampedDate(year int, month time.Month, targetDay int) time.Time {
	if targetDay < 1 {
		targetDay = 1
	}
	if last := DaysIn(year, month); targetDay > last {
		targetDay = last
	}
	return time.Date(year, month, targetDay, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the year and month immediately after the given one.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// Midnight truncates t to a pure UTC calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
