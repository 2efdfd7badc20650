package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stempel/stempel/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test setup helper
func setupLedgerHandlerTest(now time.Time) *Handler {
	clock := &utils.MockClock{FixedNow: now}
	service := NewService(&StubRepository{})
	return NewHandler(service, NewCsvRenderer(), clock)
}

func appendEntry(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ledger", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.AppendEntry(w, req)
	return w
}

func TestAppendEntry_DefaultsToClockDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	handler := setupLedgerHandlerTest(now)

	// Append an entry without an explicit date
	w := appendEntry(t, handler, `{"kind": "TIL", "delta": 2.0, "note": "overtime"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var dto EntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, now.Format(time.RFC3339), dto.Date)
	assert.Equal(t, "TIL", dto.Kind)
	assert.Equal(t, 2.0, dto.Balance)
	assert.Equal(t, "2.00 h", dto.DeltaDisplay)
	assert.Equal(t, "2.00 h", dto.BalanceDisplay)
}

func TestAppendEntry_EmptyKind(t *testing.T) {
	handler := setupLedgerHandlerTest(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	w := appendEntry(t, handler, `{"delta": 1.0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntries_CsvWhenAccepted(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	handler := setupLedgerHandlerTest(now)

	w := appendEntry(t, handler, `{"kind": "Holiday", "delta": -1.0, "note": "day off", "affectedDate": "2025-03-11"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Request the same range as CSV
	req := httptest.NewRequest(http.MethodGet, "/ledger?from=2025-03-09&to=2025-03-11", nil)
	req.Header.Set("Accept", "text/csv")
	w = httptest.NewRecorder()
	handler.GetEntries(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Kind,Delta,Balance,Note,AffectedDate", lines[0])
	assert.Contains(t, lines[1], "Holiday")
	assert.Contains(t, lines[1], "-1.00 d")
	assert.Contains(t, lines[1], "2025-03-11")
}
