package template

import (
	"context"
	"sort"
	"time"
)

type StubRepository struct {
	Templates []Template
	upserts   map[string]int
	counter   int
}

func (s *StubRepository) Upsert(ctx context.Context, template Template) (Template, error) {
	if s.upserts == nil {
		s.upserts = map[string]int{}
	}
	s.counter++
	s.upserts[template.ID] = s.counter

	for i := range s.Templates {
		if s.Templates[i].ID == template.ID {
			s.Templates[i] = template
			return template, nil
		}
	}
	s.Templates = append(s.Templates, template)
	return template, nil
}

func (s *StubRepository) Get(ctx context.Context, id string) (Template, error) {
	for _, template := range s.Templates {
		if template.ID == id {
			return template, nil
		}
	}
	return Template{}, ErrTemplateNotFound
}

func (s *StubRepository) List(ctx context.Context) ([]Template, error) {
	return s.Templates, nil
}

func (s *StubRepository) FindForDate(ctx context.Context, date time.Time) (*Template, error) {
	var matching []Template
	for _, template := range s.Templates {
		if template.AppliesTo(date) {
			matching = append(matching, template)
		}
	}
	if len(matching) == 0 {
		return nil, nil
	}
	sort.SliceStable(matching, func(i, j int) bool {
		if !matching[i].StartDate.Equal(matching[j].StartDate) {
			return matching[i].StartDate.After(matching[j].StartDate)
		}
		return s.upserts[matching[i].ID] > s.upserts[matching[j].ID]
	})
	return &matching[0], nil
}
