package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex(t *testing.T) {
	// 2024-01-01 is a Monday
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}

	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local)
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.Equal(t, 6, WeekdayIndex(sunday))
}

func TestStartOfDay(t *testing.T) {
	noon := time.Date(2024, 3, 10, 12, 34, 56, 789, time.Local)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), StartOfDay(noon))
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), NextDay(noon))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 10, 1, 0, 0, 0, time.Local)
	evening := time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)
	nextDay := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}
