package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/stempel/stempel/internal/utils"
	"github.com/stempel/stempel/pkg/event"
	"github.com/stempel/stempel/pkg/template"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Summarize returns one DaySummary per calendar day between from and to
	// (both inclusive), in ascending date order.
	Summarize(ctx context.Context, from time.Time, to time.Time) ([]DaySummary, error)
}

type ServiceImpl struct {
	eventService    event.EventService
	templateService template.Service
}

func NewService(eventService event.EventService, templateService template.Service) *ServiceImpl {
	return &ServiceImpl{eventService: eventService, templateService: templateService}
}

func (s *ServiceImpl) Summarize(ctx context.Context, from time.Time, to time.Time) ([]DaySummary, error) {
	events, err := s.eventService.EventsInRange(ctx, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	log.Tracef("Summarizing %d events between %s and %s", len(events), from, to)

	eventsByDay := make(map[time.Time][]event.Event)
	for _, e := range events {
		day := utils.StartOfDay(e.Time)
		eventsByDay[day] = append(eventsByDay[day], e)
	}

	var summaries []DaySummary
	for date := utils.StartOfDay(from); !date.After(utils.StartOfDay(to)); date = date.AddDate(0, 0, 1) {
		standardHours, err := s.templateService.StandardHours(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve template for %s: %w", date.Format(utils.DateFormat), err)
		}
		summaries = append(summaries, summarizeDay(date, eventsByDay[date], standardHours))
	}

	return summaries, nil
}

// summarizeDay collapses a day's events to the earliest open and the latest
// close. Multiple shifts within one day are not paired up individually; this
// is a known simplification.
func summarizeDay(date time.Time, events []event.Event, standardHours float64) DaySummary {
	summary := DaySummary{Date: date, StandardHours: standardHours}

	for _, e := range events {
		t := e.Time
		switch e.Kind {
		case event.KindOpen:
			if summary.OpenedAt == nil || t.Before(*summary.OpenedAt) {
				summary.OpenedAt = &t
			}
		case event.KindClose:
			if summary.ClosedAt == nil || t.After(*summary.ClosedAt) {
				summary.ClosedAt = &t
			}
		}
	}

	if summary.OpenedAt != nil && summary.ClosedAt != nil && summary.ClosedAt.After(*summary.OpenedAt) {
		worked := summary.ClosedAt.Sub(*summary.OpenedAt).Hours()
		delta := worked - standardHours
		summary.WorkedHours = &worked
		summary.DeltaHours = &delta
	}

	return summary
}
