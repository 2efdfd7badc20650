package event

import (
	"context"
	"sort"
	"time"

	"github.com/stempel/stempel/internal/utils"
)

type StubEventRepository struct {
	Events []Event
	nextID int
}

func (s *StubEventRepository) StoreEvent(ctx context.Context, event Event) (Event, error) {
	s.nextID++
	event.ID = s.nextID
	s.Events = append(s.Events, event)
	return event, nil
}

func (s *StubEventRepository) StoreEvents(ctx context.Context, events []Event) error {
	for _, event := range events {
		if _, err := s.StoreEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *StubEventRepository) FindInRange(ctx context.Context, from time.Time, to time.Time, kind *Kind) ([]Event, error) {
	var matching []Event
	for _, event := range s.Events {
		if event.Time.Before(from) || !event.Time.Before(to) {
			continue
		}
		if kind != nil && event.Kind != *kind {
			continue
		}
		matching = append(matching, event)
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].Time.Equal(matching[j].Time) {
			return matching[i].ID < matching[j].ID
		}
		return matching[i].Time.Before(matching[j].Time)
	})
	return matching, nil
}

func (s *StubEventRepository) ReplaceDayEvents(ctx context.Context, day time.Time, events []Event) error {
	var kept []Event
	for _, event := range s.Events {
		if !utils.SameDay(event.Time, day) {
			kept = append(kept, event)
		}
	}
	s.Events = kept
	return s.StoreEvents(ctx, events)
}

func (s *StubEventRepository) HasRealEventsOnDay(ctx context.Context, day time.Time) (bool, error) {
	for _, event := range s.Events {
		if utils.SameDay(event.Time, day) && !event.Generated {
			return true, nil
		}
	}
	return false, nil
}

func (s *StubEventRepository) Cleanup() {
	s.Events = []Event{}
}
