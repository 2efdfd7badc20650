package template

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Upsert validates and stores the template. A template without an ID
	// gets a fresh one assigned.
	Upsert(ctx context.Context, template Template) (Template, error)
	Get(ctx context.Context, id string) (Template, error)
	List(ctx context.Context) ([]Template, error)
	// Resolve returns the template governing the given date, or nil when
	// none covers it.
	Resolve(ctx context.Context, date time.Time) (*Template, error)
	// StandardHours returns the expected hours for the date, 0 when no
	// template covers it.
	StandardHours(ctx context.Context, date time.Time) (float64, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Upsert(ctx context.Context, template Template) (Template, error) {
	if err := template.Validate(); err != nil {
		return Template{}, err
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	stored, err := s.repo.Upsert(ctx, template)
	if err != nil {
		return Template{}, fmt.Errorf("failed to store template: %w", err)
	}
	log.Debugf("Upserted template %s (%s)", stored.ID, stored.Name)
	return stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Template, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Template, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Resolve(ctx context.Context, date time.Time) (*Template, error) {
	return s.repo.FindForDate(ctx, date)
}

func (s *ServiceImpl) StandardHours(ctx context.Context, date time.Time) (float64, error) {
	template, err := s.Resolve(ctx, date)
	if err != nil {
		return 0, err
	}
	if template == nil {
		return 0, nil
	}
	return template.HoursFor(date), nil
}
