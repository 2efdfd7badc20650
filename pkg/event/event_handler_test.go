package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stempel/stempel/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test setup helper
func setupEventHandlerTest(now time.Time) (*EventHandler, *utils.MockClock) {
	clock := &utils.MockClock{FixedNow: now}
	handler := NewEventHandler(NewEventService(&StubEventRepository{}), clock)
	return handler, clock
}

func recordEvent(t *testing.T, handler *EventHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/event", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.RecordEvent(w, req)
	return w
}

func TestRecordEvent_DefaultsToClockTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	handler, _ := setupEventHandlerTest(now)

	// Record an event without an explicit time
	w := recordEvent(t, handler, `{"kind": "open"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var dto EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, now.Format(time.RFC3339), dto.Time)
	assert.Equal(t, "open", dto.Kind)
	assert.False(t, dto.Generated)
	assert.NotEmpty(t, dto.UID)
}

func TestRecordEvent_FollowsClockBetweenRequests(t *testing.T) {
	open := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	handler, clock := setupEventHandlerTest(open)

	// Clock in, work the day, clock out
	w := recordEvent(t, handler, `{"kind": "open"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	clock.SetNow(open.Add(8 * time.Hour))
	w = recordEvent(t, handler, `{"kind": "close"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var dto EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, open.Add(8*time.Hour).Format(time.RFC3339), dto.Time)
	assert.Equal(t, "close", dto.Kind)
}

func TestRecordEvent_ExplicitTimeWins(t *testing.T) {
	handler, _ := setupEventHandlerTest(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	// Backfill an event for an earlier day
	w := recordEvent(t, handler, `{"kind": "open", "time": "2025-03-07T08:30:00Z"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var dto EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "2025-03-07T08:30:00Z", dto.Time)
}

func TestRecordEvent_InvalidKind(t *testing.T) {
	handler, _ := setupEventHandlerTest(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	w := recordEvent(t, handler, `{"kind": "lunch"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Contains(t, errResponse.Error, "Invalid event kind")
}

func TestRecordEvent_InvalidTime(t *testing.T) {
	handler, _ := setupEventHandlerTest(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	w := recordEvent(t, handler, `{"kind": "open", "time": "10:30"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Contains(t, errResponse.Details, "RFC3339")
}
