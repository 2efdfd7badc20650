package utils

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// NextDay returns midnight of the day after t's calendar day.
func NextDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether both timestamps fall on the same calendar day.
func SameDay(date1, date2 time.Time) bool {
	year1, month1, day1 := date1.Date()
	year2, month2, day2 := date2.Date()
	return year1 == year2 && month1 == month2 && day1 == day2
}

// WeekdayIndex maps a date to the Monday-first weekday numbering used by
// weekday-hours arrays: Monday is 0, Sunday is 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
