package summary

import (
	"time"

	"github.com/stempel/stempel/pkg/template"
)

// Shift is the manual-entry form of a day's working interval. The override
// flags record that a time was typed in rather than backed by a detected
// clock event; they matter for display only, never for aggregation.
type Shift struct {
	Date                time.Time
	Start               template.DayTime
	End                 template.DayTime
	LunchBreak          time.Duration
	DayMode             string
	ManualStartOverride bool
	ManualEndOverride   bool
}

// WorkedHours is the shift interval minus the lunch break, floored at zero.
func (s Shift) WorkedHours() float64 {
	worked := time.Duration(s.End-s.Start)*time.Minute - s.LunchBreak
	if worked < 0 {
		return 0
	}
	return worked.Hours()
}

// ShiftForDay derives a day's shift from its summary, falling back to the
// template's standard interval where no clock event was detected. Fallback
// times count as manual overrides.
func ShiftForDay(daySummary DaySummary, tmpl *template.Template) Shift {
	shift := Shift{Date: daySummary.Date, DayMode: "off"}
	if daySummary.StandardHours > 0 {
		shift.DayMode = "work"
	}
	if tmpl != nil {
		shift.Start = tmpl.StandardStart
		shift.End = tmpl.StandardEnd
		shift.LunchBreak = tmpl.LunchBreak
		shift.ManualStartOverride = true
		shift.ManualEndOverride = true
	}

	if daySummary.OpenedAt != nil {
		shift.Start = template.DayTimeOf(*daySummary.OpenedAt)
		shift.ManualStartOverride = false
	}
	if daySummary.ClosedAt != nil {
		shift.End = template.DayTimeOf(*daySummary.ClosedAt)
		shift.ManualEndOverride = false
	}

	return shift
}
