// Package timeutil holds the day-bucket arithmetic shared by the journal
// rate limit, the streak ledger and the buddy progress projection. A day
// bucket is a server-local calendar day, midnight to the last nanosecond
// before the next midnight.
package timeutil

import "time"

const secondsPerDay = 24 * 60 * 60

// DayBounds returns the inclusive start and end of the calendar day
// containing t, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// DayBoundsAgo returns the bounds of the day that lies daysAgo calendar days
// before the day containing t. DayBoundsAgo(t, 0) == DayBounds(t).
func DayBoundsAgo(t time.Time, daysAgo int) (start, end time.Time) {
	return DayBounds(t.AddDate(0, 0, -daysAgo))
}

// ElapsedDays returns the number of whole days between from and to,
// truncated toward zero. Returns 0 when to is before from.
func ElapsedDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / (secondsPerDay * time.Second))
}

// ElapsedSeconds returns the number of whole seconds between from and to,
// floored at zero so a slightly-future start never yields a negative value.
func ElapsedSeconds(from, to time.Time) int64 {
	s := int64(to.Sub(from) / time.Second)
	if s < 0 {
		return 0
	}
	return s
}

// DaysToSeconds converts a whole-day count to seconds, for displaying an
// idle streak whose only record is its cached day count.
func DaysToSeconds(days int) int64 {
	return int64(days) * secondsPerDay
}

// CeilDaysUntil returns the number of days from now until deadline, rounded
// up, floored at zero. Used for trial-days-remaining style countdowns.
func CeilDaysUntil(now, deadline time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	days := d / (secondsPerDay * time.Second)
	if d%(secondsPerDay*time.Second) != 0 {
		days++
	}
	return int(days)
}
