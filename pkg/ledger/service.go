package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrEmptyKind = errors.New("ledger entry kind must not be empty")

type Service interface {
	// Append records a new entry and returns it with its running balance
	// filled in. affectedDate is the date the adjustment pertains to when
	// that differs from the entry date.
	Append(ctx context.Context, kind string, delta float64, note string, affectedDate *time.Time, entryDate time.Time) (Entry, error)
	Entries(ctx context.Context, from time.Time, to time.Time, kind *string) ([]Entry, error)
	Balance(ctx context.Context, kind string) (float64, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Append(ctx context.Context, kind string, delta float64, note string, affectedDate *time.Time, entryDate time.Time) (Entry, error) {
	if kind == "" {
		return Entry{}, ErrEmptyKind
	}

	entry := Entry{
		Date:         entryDate,
		Kind:         kind,
		Delta:        delta,
		Note:         note,
		AffectedDate: affectedDate,
	}
	stored, err := s.repo.Append(ctx, entry)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	log.Debugf("Appended %s entry: delta %s, balance %s", kind, FormatAmount(kind, stored.Delta), FormatAmount(kind, stored.Balance))
	return stored, nil
}

func (s *ServiceImpl) Entries(ctx context.Context, from time.Time, to time.Time, kind *string) ([]Entry, error) {
	return s.repo.FindInRange(ctx, from, to, kind)
}

func (s *ServiceImpl) Balance(ctx context.Context, kind string) (float64, error) {
	return s.repo.LastBalance(ctx, kind)
}
