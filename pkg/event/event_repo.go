package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EventRepository interface {
	StoreEvent(ctx context.Context, event Event) (Event, error)
	StoreEvents(ctx context.Context, events []Event) error
	FindInRange(ctx context.Context, from time.Time, to time.Time, kind *Kind) ([]Event, error)
	ReplaceDayEvents(ctx context.Context, day time.Time, events []Event) error
	HasRealEventsOnDay(ctx context.Context, day time.Time) (bool, error)
}

type EventRepositoryImpl struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepositoryImpl {
	return &EventRepositoryImpl{db: db}
}

// StoreEvent stores a new Event to the database
func (r *EventRepositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	query := "INSERT INTO clock_event (uid, time_unix, kind, generated) VALUES (?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, event.UID, event.Time.Unix(), string(event.Kind), event.Generated)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return Event{}, err
	}

	event.ID = int(lastInsertID)

	return event, nil
}

// StoreEvents stores all given events in a single transaction.
func (r *EventRepositoryImpl) StoreEvents(ctx context.Context, events []Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertEvents(ctx, tx, events); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func (r *EventRepositoryImpl) FindInRange(ctx context.Context, from time.Time, to time.Time, kind *Kind) ([]Event, error) {
	query := `SELECT id, uid, time_unix, kind, generated
			  FROM clock_event
			  WHERE time_unix >= ? AND time_unix < ?`
	args := []any{from.Unix(), to.Unix()}
	if kind != nil {
		query += " AND kind = ?"
		args = append(args, string(*kind))
	}
	query += " ORDER BY time_unix, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var timeUnix int64
		var kindString string
		if err := rows.Scan(&event.ID, &event.UID, &timeUnix, &kindString, &event.Generated); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		event.Time = time.Unix(timeUnix, 0)
		event.Kind = Kind(kindString)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return events, nil
}

// ReplaceDayEvents removes every event on the given calendar day and inserts
// the provided events in their place, atomically. Used by the template
// applier; normal operation never deletes events.
func (r *EventRepositoryImpl) ReplaceDayEvents(ctx context.Context, day time.Time, events []Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStart := utils.StartOfDay(day)
	dayEnd := utils.NextDay(day)
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM clock_event WHERE time_unix >= ? AND time_unix < ?",
		dayStart.Unix(), dayEnd.Unix(),
	); err != nil {
		err := fmt.Errorf("could not delete day events: %w", err)
		log.Error(err)
		return err
	}

	if err := insertEvents(ctx, tx, events); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func (r *EventRepositoryImpl) HasRealEventsOnDay(ctx context.Context, day time.Time) (bool, error) {
	dayStart := utils.StartOfDay(day)
	dayEnd := utils.NextDay(day)

	query := "SELECT COUNT(1) FROM clock_event WHERE time_unix >= ? AND time_unix < ? AND generated = 0"
	row := r.db.QueryRowContext(ctx, query, dayStart.Unix(), dayEnd.Unix())

	var count int
	if err := row.Scan(&count); err != nil {
		err := fmt.Errorf("could not count day events: %w", err)
		log.Error(err)
		return false, err
	}
	return count > 0, nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, events []Event) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO clock_event (uid, time_unix, kind, generated) VALUES (?, ?, ?, ?)")
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	for _, event := range events {
		if _, err := stmt.ExecContext(ctx, event.UID, event.Time.Unix(), string(event.Kind), event.Generated); err != nil {
			err := fmt.Errorf("could not insert event: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}
