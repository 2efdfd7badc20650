package template

import (
	"context"
	"testing"
	"time"

	"github.com/stempel/stempel/internal/utils"
	"github.com/stempel/stempel/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApplier() (*ApplierImpl, *event.StubEventRepository) {
	repo := &event.StubEventRepository{}
	return NewApplier(event.NewEventService(repo)), repo
}

// one full week, Monday 2024-01-01 through Sunday 2024-01-07
func weekTemplate() Template {
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local)
	template := validTemplate()
	template.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	template.EndDate = &end
	return template
}

func TestApplierImpl_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("synthesizes open and close events for working days", func(t *testing.T) {
		applier, repo := setupApplier()

		result, err := applier.Apply(ctx, weekTemplate(), false, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, 5, result.DaysApplied)
		require.Len(t, repo.Events, 10)

		monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
		assert.Equal(t, monday.Add(9*time.Hour), repo.Events[0].Time)
		assert.Equal(t, event.KindOpen, repo.Events[0].Kind)
		assert.True(t, repo.Events[0].Generated)
		assert.Equal(t, monday.Add(17*time.Hour), repo.Events[1].Time)
		assert.Equal(t, event.KindClose, repo.Events[1].Kind)
	})

	t.Run("never inserts events on zero-hour weekdays", func(t *testing.T) {
		applier, repo := setupApplier()

		result, err := applier.Apply(ctx, weekTemplate(), true, time.Time{})

		require.NoError(t, err)
		require.Len(t, result.Skipped, 2)
		assert.Equal(t, SkipNoStandardHours, result.Skipped[0].Reason)
		assert.Equal(t, SkipNoStandardHours, result.Skipped[1].Reason)
		for _, stored := range repo.Events {
			weekend := utils.WeekdayIndex(stored.Time) >= 5
			assert.False(t, weekend, "no events expected on %s", stored.Time)
		}
	})

	t.Run("skips every day of an invalid standard interval", func(t *testing.T) {
		applier, repo := setupApplier()
		template := weekTemplate()
		template.StandardEnd = template.StandardStart

		result, err := applier.Apply(ctx, template, true, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, 0, result.DaysApplied)
		assert.Empty(t, repo.Events)
		require.Len(t, result.Skipped, 7)
		assert.Equal(t, SkipInvalidInterval, result.Skipped[0].Reason)
	})

	t.Run("leaves days with recorded events alone unless overwriting", func(t *testing.T) {
		applier, repo := setupApplier()
		tuesday := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
		recorded := event.Event{UID: "real", Time: tuesday.Add(8 * time.Hour), Kind: event.KindOpen}
		_, err := repo.StoreEvent(ctx, recorded)
		require.NoError(t, err)

		result, err := applier.Apply(ctx, weekTemplate(), false, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, 4, result.DaysApplied)
		require.Len(t, result.Skipped, 3)
		assert.Equal(t, SkipRealEvents, result.Skipped[0].Reason)
		assert.True(t, utils.SameDay(result.Skipped[0].Date, tuesday))
	})

	t.Run("overwrite replaces recorded events", func(t *testing.T) {
		applier, repo := setupApplier()
		tuesday := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
		_, err := repo.StoreEvent(ctx, event.Event{UID: "real", Time: tuesday.Add(8 * time.Hour), Kind: event.KindOpen})
		require.NoError(t, err)

		result, err := applier.Apply(ctx, weekTemplate(), true, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, 5, result.DaysApplied)
		for _, stored := range repo.Events {
			assert.True(t, stored.Generated)
		}
	})

	t.Run("repeated overwrite application is idempotent", func(t *testing.T) {
		applier, repo := setupApplier()

		_, err := applier.Apply(ctx, weekTemplate(), true, time.Time{})
		require.NoError(t, err)
		firstRun := make([]event.Event, len(repo.Events))
		copy(firstRun, repo.Events)

		result, err := applier.Apply(ctx, weekTemplate(), true, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 5, result.DaysApplied)
		require.Len(t, repo.Events, len(firstRun))
		for i, stored := range repo.Events {
			assert.Equal(t, firstRun[i].Time, stored.Time)
			assert.Equal(t, firstRun[i].Kind, stored.Kind)
			assert.Equal(t, firstRun[i].Generated, stored.Generated)
		}
	})

	t.Run("ongoing template requires a horizon", func(t *testing.T) {
		applier, _ := setupApplier()
		template := weekTemplate()
		template.EndDate = nil

		_, err := applier.Apply(ctx, template, false, time.Time{})
		assert.ErrorIs(t, err, ErrHorizonRequired)
	})

	t.Run("ongoing template runs up to the horizon", func(t *testing.T) {
		applier, _ := setupApplier()
		template := weekTemplate()
		template.EndDate = nil

		horizon := time.Date(2024, 1, 14, 0, 0, 0, 0, time.Local)
		result, err := applier.Apply(ctx, template, false, horizon)

		require.NoError(t, err)
		assert.Equal(t, 10, result.DaysApplied)
	})
}
