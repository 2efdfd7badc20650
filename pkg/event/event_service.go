package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidKind = errors.New("event kind must be open or close")

type EventService interface {
	// Record stores a live clock event. The write hits durable storage
	// before Record returns.
	Record(ctx context.Context, at time.Time, kind Kind) (Event, error)
	// EventsInRange returns all events on days between from and to
	// (both inclusive), ordered by timestamp.
	EventsInRange(ctx context.Context, from time.Time, to time.Time, kind *Kind) ([]Event, error)
	HasRealEventsOnDay(ctx context.Context, day time.Time) (bool, error)
	// StoreGenerated appends template-synthesized events without touching
	// anything already recorded.
	StoreGenerated(ctx context.Context, events []Event) error
	// ReplaceDay atomically swaps all events of a calendar day for the
	// given ones. Only the template applier calls this.
	ReplaceDay(ctx context.Context, day time.Time, events []Event) error
}

type EventServiceImpl struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventServiceImpl {
	return &EventServiceImpl{repo: repo}
}

func (s *EventServiceImpl) Record(ctx context.Context, at time.Time, kind Kind) (Event, error) {
	if kind != KindOpen && kind != KindClose {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	event := Event{
		UID:       uuid.NewString(),
		Time:      at,
		Kind:      kind,
		Generated: false,
	}
	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("Recorded %s event at %s", stored.Kind, stored.Time)
	return stored, nil
}

func (s *EventServiceImpl) EventsInRange(ctx context.Context, from time.Time, to time.Time, kind *Kind) ([]Event, error) {
	return s.repo.FindInRange(ctx, utils.StartOfDay(from), utils.NextDay(to), kind)
}

func (s *EventServiceImpl) HasRealEventsOnDay(ctx context.Context, day time.Time) (bool, error) {
	return s.repo.HasRealEventsOnDay(ctx, day)
}

func (s *EventServiceImpl) StoreGenerated(ctx context.Context, events []Event) error {
	for i := range events {
		events[i].Generated = true
		if events[i].UID == "" {
			events[i].UID = uuid.NewString()
		}
	}
	return s.repo.StoreEvents(ctx, events)
}

func (s *EventServiceImpl) ReplaceDay(ctx context.Context, day time.Time, events []Event) error {
	for i := range events {
		if events[i].UID == "" {
			events[i].UID = uuid.NewString()
		}
	}
	return s.repo.ReplaceDayEvents(ctx, day, events)
}
