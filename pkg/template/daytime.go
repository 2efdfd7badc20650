package template

import (
	"fmt"
	"time"
)

// DayTime is a time of day as minutes since midnight.
type DayTime int

// ParseDayTime parses "15:04" style input.
func ParseDayTime(s string) (DayTime, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return DayTime(parsed.Hour()*60 + parsed.Minute()), nil
}

// DayTimeOf extracts the time of day from a timestamp.
func DayTimeOf(t time.Time) DayTime {
	return DayTime(t.Hour()*60 + t.Minute())
}

// At anchors the time of day on the given date, in the date's location.
func (d DayTime) At(day time.Time) time.Time {
	year, month, dayOfMonth := day.Date()
	return time.Date(year, month, dayOfMonth, int(d)/60, int(d)%60, 0, 0, day.Location())
}

func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(d)/60, int(d)%60)
}
