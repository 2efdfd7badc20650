package template

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stempel/stempel/internal/utils"
	"github.com/stempel/stempel/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test setup helper
func setupApplyHandlerTest(t *testing.T, now time.Time, horizonDays int, tmpl Template) (*Handler, *event.StubEventRepository) {
	t.Helper()
	service := NewService(&StubRepository{})
	_, err := service.Upsert(context.Background(), tmpl)
	require.NoError(t, err)

	eventRepo := &event.StubEventRepository{}
	applier := NewApplier(event.NewEventService(eventRepo))
	clock := &utils.MockClock{FixedNow: now}
	return NewHandler(service, applier, clock, horizonDays), eventRepo
}

func applyTemplate(t *testing.T, handler *Handler, templateId string, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/template/"+templateId+"/apply"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"templateId": templateId})
	w := httptest.NewRecorder()
	handler.ApplyTemplate(w, req)
	return w
}

func TestApplyTemplate_DefaultHorizonFromClock(t *testing.T) {
	// An ongoing template starting on Monday, clock on Wednesday,
	// two horizon days: Monday through Friday should be covered.
	tmpl := validTemplate()
	tmpl.EndDate = nil
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	handler, eventRepo := setupApplyHandlerTest(t, now, 2, tmpl)

	w := applyTemplate(t, handler, tmpl.ID, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ApplyResultDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 5, result.DaysApplied)
	assert.Empty(t, result.Skipped)
	assert.Len(t, eventRepo.Events, 10)
}

func TestApplyTemplate_ExplicitUntilWins(t *testing.T) {
	tmpl := validTemplate()
	tmpl.EndDate = nil
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	handler, eventRepo := setupApplyHandlerTest(t, now, 90, tmpl)

	w := applyTemplate(t, handler, tmpl.ID, "?until=2024-01-02")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ApplyResultDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 2, result.DaysApplied)
	assert.Len(t, eventRepo.Events, 4)
}

func TestApplyTemplate_InvalidUntil(t *testing.T) {
	tmpl := validTemplate()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	handler, _ := setupApplyHandlerTest(t, now, 90, tmpl)

	w := applyTemplate(t, handler, tmpl.ID, "?until=02.01.2024")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyTemplate_UnknownTemplate(t *testing.T) {
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	handler, _ := setupApplyHandlerTest(t, now, 90, validTemplate())

	w := applyTemplate(t, handler, "missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
