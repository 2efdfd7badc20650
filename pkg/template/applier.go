package template

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stempel/stempel/internal/utils"
	"github.com/stempel/stempel/pkg/event"
	log "github.com/sirupsen/logrus"
)

var ErrHorizonRequired = errors.New("an explicit horizon is required for an ongoing template")

type SkipReason string

const (
	SkipNoStandardHours SkipReason = "no standard hours on weekday"
	SkipInvalidInterval SkipReason = "standard end not after standard start"
	SkipRealEvents      SkipReason = "day has recorded events"
)

type SkippedDay struct {
	Date   time.Time
	Reason SkipReason
}

// ApplyResult reports what the applier did, day by day, so callers can
// explain a zero-count outcome.
type ApplyResult struct {
	DaysApplied int
	Skipped     []SkippedDay
}

type Applier interface {
	Apply(ctx context.Context, template Template, overwrite bool, horizon time.Time) (ApplyResult, error)
}

type ApplierImpl struct {
	events event.EventService
}

func NewApplier(events event.EventService) *ApplierImpl {
	return &ApplierImpl{events: events}
}

// Apply synthesizes generated open/close events for every working day the
// template covers. Ongoing templates run up to the caller-supplied horizon;
// bounded ones ignore it. With overwrite, affected days are replaced
// wholesale, which makes repeated application idempotent.
func (a *ApplierImpl) Apply(ctx context.Context, template Template, overwrite bool, horizon time.Time) (ApplyResult, error) {
	last := template.EndDate
	if last == nil {
		if horizon.IsZero() {
			return ApplyResult{}, ErrHorizonRequired
		}
		last = &horizon
	}

	result := ApplyResult{}
	first := utils.StartOfDay(template.StartDate)
	for day := first; !day.After(utils.StartOfDay(*last)); day = day.AddDate(0, 0, 1) {
		skipped, err := a.applyDay(ctx, template, overwrite, day)
		if err != nil {
			return result, fmt.Errorf("failed to apply template on %s: %w", day.Format(utils.DateFormat), err)
		}
		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			continue
		}
		result.DaysApplied++
	}

	log.Infof("Applied template %s to %d days (%d skipped)", template.ID, result.DaysApplied, len(result.Skipped))
	return result, nil
}

func (a *ApplierImpl) applyDay(ctx context.Context, template Template, overwrite bool, day time.Time) (*SkippedDay, error) {
	if template.HoursFor(day) == 0 {
		return &SkippedDay{Date: day, Reason: SkipNoStandardHours}, nil
	}
	if template.StandardEnd <= template.StandardStart {
		return &SkippedDay{Date: day, Reason: SkipInvalidInterval}, nil
	}

	if !overwrite {
		hasReal, err := a.events.HasRealEventsOnDay(ctx, day)
		if err != nil {
			return nil, err
		}
		if hasReal {
			return &SkippedDay{Date: day, Reason: SkipRealEvents}, nil
		}
	}

	generated := []event.Event{
		{Time: template.StandardStart.At(day), Kind: event.KindOpen, Generated: true},
		{Time: template.StandardEnd.At(day), Kind: event.KindClose, Generated: true},
	}

	if overwrite {
		return nil, a.events.ReplaceDay(ctx, day, generated)
	}
	return nil, a.events.StoreGenerated(ctx, generated)
}
