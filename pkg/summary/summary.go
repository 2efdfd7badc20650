package summary

import "time"

// DaySummary pairs a day's clock events against the applicable template.
// WorkedHours and DeltaHours are nil unless the day has both an open and a
// close event with the close strictly after the open.
type DaySummary struct {
	Date          time.Time
	OpenedAt      *time.Time
	ClosedAt      *time.Time
	WorkedHours   *float64
	StandardHours float64
	DeltaHours    *float64
}
