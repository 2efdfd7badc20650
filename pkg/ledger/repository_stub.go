package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/stempel/stempel/internal/utils"
)

type StubRepository struct {
	Entries []Entry
}

func (s *StubRepository) Append(ctx context.Context, entry Entry) (Entry, error) {
	lastBalance, err := s.LastBalance(ctx, entry.Kind)
	if err != nil {
		return Entry{}, err
	}
	entry.Balance = lastBalance + entry.Delta
	entry.ID = len(s.Entries) + 1
	s.Entries = append(s.Entries, entry)
	return entry, nil
}

func (s *StubRepository) FindInRange(ctx context.Context, from time.Time, to time.Time, kind *string) ([]Entry, error) {
	fromDay := utils.StartOfDay(from)
	toEnd := utils.NextDay(to)

	var matching []Entry
	for _, entry := range s.Entries {
		if entry.Date.Before(fromDay) || !entry.Date.Before(toEnd) {
			continue
		}
		if kind != nil && entry.Kind != *kind {
			continue
		}
		matching = append(matching, entry)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		if matching[i].Date.Equal(matching[j].Date) {
			return matching[i].ID < matching[j].ID
		}
		return matching[i].Date.Before(matching[j].Date)
	})
	return matching, nil
}

func (s *StubRepository) LastBalance(ctx context.Context, kind string) (float64, error) {
	balance := 0.0
	found := false
	var latest Entry
	for _, entry := range s.Entries {
		if entry.Kind != kind {
			continue
		}
		if !found || entry.Date.After(latest.Date) || (entry.Date.Equal(latest.Date) && entry.ID > latest.ID) {
			latest = entry
			found = true
		}
	}
	if found {
		balance = latest.Balance
	}
	return balance, nil
}
