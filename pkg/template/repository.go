package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Upsert inserts the template, or replaces the stored fields in place
	// when the id is already known. Other templates are untouched.
	Upsert(ctx context.Context, template Template) (Template, error)
	Get(ctx context.Context, id string) (Template, error)
	List(ctx context.Context) ([]Template, error)
	// FindForDate returns the template whose range covers the date, or nil.
	// Among overlapping templates the one with the latest start date wins;
	// ties go to the most recently upserted one.
	FindForDate(ctx context.Context, date time.Time) (*Template, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const templateColumns = `id, name, position, location, start_date, end_date,
			monday_hours, tuesday_hours, wednesday_hours, thursday_hours,
			friday_hours, saturday_hours, sunday_hours,
			standard_start_min, standard_end_min, lunch_break_sec`

func (r *RepositoryImpl) Upsert(ctx context.Context, template Template) (Template, error) {
	query := `INSERT INTO work_template (` + templateColumns + `, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				position = excluded.position,
				location = excluded.location,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				monday_hours = excluded.monday_hours,
				tuesday_hours = excluded.tuesday_hours,
				wednesday_hours = excluded.wednesday_hours,
				thursday_hours = excluded.thursday_hours,
				friday_hours = excluded.friday_hours,
				saturday_hours = excluded.saturday_hours,
				sunday_hours = excluded.sunday_hours,
				standard_start_min = excluded.standard_start_min,
				standard_end_min = excluded.standard_end_min,
				lunch_break_sec = excluded.lunch_break_sec,
				updated_at = excluded.updated_at`

	var endDate *string
	if template.EndDate != nil {
		formatted := template.EndDate.Format(utils.DateFormat)
		endDate = &formatted
	}

	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.Name,
		template.Position,
		template.Location,
		template.StartDate.Format(utils.DateFormat),
		endDate,
		template.WeekdayHours[0],
		template.WeekdayHours[1],
		template.WeekdayHours[2],
		template.WeekdayHours[3],
		template.WeekdayHours[4],
		template.WeekdayHours[5],
		template.WeekdayHours[6],
		int(template.StandardStart),
		int(template.StandardEnd),
		int(template.LunchBreak.Seconds()),
		time.Now().UnixNano(),
	)
	if err != nil {
		err := fmt.Errorf("could not upsert template: %w", err)
		log.Error(err)
		return Template{}, err
	}

	return template, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Template, error) {
	query := `SELECT ` + templateColumns + ` FROM work_template WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	template, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		err := fmt.Errorf("could not get template: %w", err)
		log.Error(err)
		return Template{}, err
	}
	return template, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Template, error) {
	query := `SELECT ` + templateColumns + ` FROM work_template ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query templates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return templates, nil
}

func (r *RepositoryImpl) FindForDate(ctx context.Context, date time.Time) (*Template, error) {
	day := date.Format(utils.DateFormat)
	query := `SELECT ` + templateColumns + `
			  FROM work_template
			  WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?)
			  ORDER BY start_date DESC, updated_at DESC, id DESC
			  LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, day, day)

	template, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not resolve template for date: %w", err)
		log.Error(err)
		return nil, err
	}
	return &template, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var template Template
	var startDate string
	var endDate sql.NullString
	var standardStartMin, standardEndMin, lunchBreakSec int

	if err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Position,
		&template.Location,
		&startDate,
		&endDate,
		&template.WeekdayHours[0],
		&template.WeekdayHours[1],
		&template.WeekdayHours[2],
		&template.WeekdayHours[3],
		&template.WeekdayHours[4],
		&template.WeekdayHours[5],
		&template.WeekdayHours[6],
		&standardStartMin,
		&standardEndMin,
		&lunchBreakSec,
	); err != nil {
		return Template{}, err
	}

	parsedStart, err := time.ParseInLocation(utils.DateFormat, startDate, time.Local)
	if err != nil {
		return Template{}, fmt.Errorf("could not parse start date: %w", err)
	}
	template.StartDate = parsedStart

	if endDate.Valid {
		parsedEnd, err := time.ParseInLocation(utils.DateFormat, endDate.String, time.Local)
		if err != nil {
			return Template{}, fmt.Errorf("could not parse end date: %w", err)
		}
		template.EndDate = &parsedEnd
	}

	template.StandardStart = DayTime(standardStartMin)
	template.StandardEnd = DayTime(standardEndMin)
	template.LunchBreak = time.Duration(lunchBreakSec) * time.Second

	return template, nil
}
