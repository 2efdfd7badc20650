package template

import (
	"errors"
	"fmt"
	"time"

	"github.com/stempel/stempel/internal/utils"
)

var (
	ErrHoursOutOfRange  = errors.New("weekday hours must be between 0 and 24")
	ErrInvalidInterval  = errors.New("standard end must be after standard start")
	ErrNegativeLunch    = errors.New("lunch break must not be negative")
	ErrTemplateNotFound = errors.New("template not found")
)

// Template is a time-bounded weekly-hours policy. WeekdayHours is indexed
// Monday=0 through Sunday=6. A nil EndDate means the template is ongoing.
type Template struct {
	ID           string
	Name         string
	Position     string
	Location     string
	StartDate    time.Time
	EndDate      *time.Time
	WeekdayHours [7]float64
	// StandardStart and StandardEnd describe the usual working interval,
	// used when synthesizing events for a day.
	StandardStart DayTime
	StandardEnd   DayTime
	LunchBreak    time.Duration
}

// Validate rejects invalid user input at the boundary. The standard
// interval is validated at entry only; resolution and summary lookups never
// re-check it.
func (t Template) Validate() error {
	for i, hours := range t.WeekdayHours {
		if hours < 0 || hours > 24 {
			return fmt.Errorf("%w: weekday %d has %.2f", ErrHoursOutOfRange, i, hours)
		}
	}
	if t.StandardEnd <= t.StandardStart {
		return ErrInvalidInterval
	}
	if t.LunchBreak < 0 {
		return ErrNegativeLunch
	}
	return nil
}

// AppliesTo reports whether the template covers the given calendar day.
func (t Template) AppliesTo(date time.Time) bool {
	day := utils.StartOfDay(date)
	if day.Before(utils.StartOfDay(t.StartDate)) {
		return false
	}
	if t.EndDate == nil {
		return true
	}
	return !day.After(utils.StartOfDay(*t.EndDate))
}

// HoursFor returns the standard hours the template expects on the given day.
func (t Template) HoursFor(date time.Time) float64 {
	return t.WeekdayHours[utils.WeekdayIndex(date)]
}
