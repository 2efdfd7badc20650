package ledger

import (
	"fmt"
	"time"
)

const (
	// KindTIL tracks time-in-lieu, denominated in hours.
	KindTIL = "TIL"
	// KindHoliday tracks holiday entitlement, denominated in days.
	KindHoliday = "Holiday"
)

// Entry is one row of the account log. Balance is the running total of its
// kind as of this entry. Entries are append-only; a mistake is corrected by
// appending a compensating entry with an explanatory note, never by editing
// history.
type Entry struct {
	ID           int
	Date         time.Time
	Kind         string
	Delta        float64
	Balance      float64
	Note         string
	AffectedDate *time.Time
}

// FormatAmount renders an amount with the unit its kind implies. The same
// formatting is used on screen and in exports.
func FormatAmount(kind string, amount float64) string {
	switch kind {
	case KindTIL:
		return fmt.Sprintf("%.2f h", amount)
	case KindHoliday:
		return fmt.Sprintf("%.2f d", amount)
	default:
		return fmt.Sprintf("%.2f", amount)
	}
}
