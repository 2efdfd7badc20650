package ledger

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
	// Append stores the entry with its balance computed from the most
	// recent entry of the same kind. There is no update and no delete.
	Append(ctx context.Context, entry Entry) (Entry, error)
	FindInRange(ctx context.Context, from time.Time, to time.Time, kind *string) ([]Entry, error)
	LastBalance(ctx context.Context, kind string) (float64, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Append(ctx context.Context, entry Entry) (Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	lastBalance, err := lastBalance(ctx, tx, entry.Kind)
	if err != nil {
		return Entry{}, err
	}
	entry.Balance = lastBalance + entry.Delta

	var affectedDate *string
	if entry.AffectedDate != nil {
		formatted := entry.AffectedDate.Format(utils.DateFormat)
		affectedDate = &formatted
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO account_log (entry_date_unix, kind, delta, balance, note, affected_date) VALUES (?, ?, ?, ?, ?, ?)",
		entry.Date.Unix(), entry.Kind, entry.Delta, entry.Balance, entry.Note, affectedDate,
	)
	if err != nil {
		err := fmt.Errorf("could not insert ledger entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	entry.ID = int(lastInsertID)

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return entry, nil
}

func (r *RepositoryImpl) FindInRange(ctx context.Context, from time.Time, to time.Time, kind *string) ([]Entry, error) {
	query := `SELECT id, entry_date_unix, kind, delta, balance, note, affected_date
			  FROM account_log
			  WHERE entry_date_unix >= ? AND entry_date_unix < ?`
	args := []any{utils.StartOfDay(from).Unix(), utils.NextDay(to).Unix()}
	if kind != nil {
		query += " AND kind = ?"
		args = append(args, *kind)
	}
	query += " ORDER BY entry_date_unix, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query ledger entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var dateUnix int64
		var affectedDate sql.NullString
		if err := rows.Scan(&entry.ID, &dateUnix, &entry.Kind, &entry.Delta, &entry.Balance, &entry.Note, &affectedDate); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		entry.Date = time.Unix(dateUnix, 0)
		if affectedDate.Valid {
			parsed, err := time.ParseInLocation(utils.DateFormat, affectedDate.String, time.Local)
			if err != nil {
				return nil, fmt.Errorf("could not parse affected date: %w", err)
			}
			entry.AffectedDate = &parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

func (r *RepositoryImpl) LastBalance(ctx context.Context, kind string) (float64, error) {
	return lastBalance(ctx, r.db, kind)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lastBalance(ctx context.Context, q queryRower, kind string) (float64, error) {
	row := q.QueryRowContext(ctx,
		"SELECT balance FROM account_log WHERE kind = ? ORDER BY entry_date_unix DESC, id DESC LIMIT 1",
		kind,
	)
	var balance float64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		err := fmt.Errorf("could not read last balance: %w", err)
		log.Error(err)
		return 0, err
	}
	return balance, nil
}
