package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/stempel/stempel/internal/rest"
	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	ID             int     `json:"id"`
	Date           string  `json:"date"`
	Kind           string  `json:"kind"`
	Delta          float64 `json:"delta"`
	Balance        float64 `json:"balance"`
	DeltaDisplay   string  `json:"deltaDisplay"`
	BalanceDisplay string  `json:"balanceDisplay"`
	Note           string  `json:"note,omitempty"`
	AffectedDate   string  `json:"affectedDate,omitempty"`
}

type Handler struct {
	service     Service
	csvRenderer CsvRenderer
	clock       utils.Clock
}

func NewHandler(service Service, csvRenderer CsvRenderer, clock utils.Clock) *Handler {
	return &Handler{service, csvRenderer, clock}
}

func (h *Handler) AppendEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Appending ledger entry")

	var appendRequest struct {
		Kind         string  `json:"kind"`
		Delta        float64 `json:"delta"`
		Note         string  `json:"note"`
		AffectedDate string  `json:"affectedDate"`
		Date         string  `json:"date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&appendRequest); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	entryDate := h.clock.Now()
	if appendRequest.Date != "" {
		parsed, err := time.Parse(time.RFC3339, appendRequest.Date)
		if err != nil {
			writeBadRequest(w, "Invalid date format", "date must be in RFC3339 format")
			return
		}
		entryDate = parsed
	}

	var affectedDate *time.Time
	if appendRequest.AffectedDate != "" {
		parsed, err := time.ParseInLocation(utils.DateFormat, appendRequest.AffectedDate, time.Local)
		if err != nil {
			writeBadRequest(w, "Invalid affectedDate format", "affectedDate must be in "+utils.DateFormat+" format")
			return
		}
		affectedDate = &parsed
	}

	entry, err := h.service.Append(r.Context(), appendRequest.Kind, appendRequest.Delta, appendRequest.Note, affectedDate, entryDate)
	if err != nil {
		if errors.Is(err, ErrEmptyKind) {
			writeBadRequest(w, "Invalid ledger entry", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	from, err := time.ParseInLocation(utils.DateFormat, r.URL.Query().Get("from"), time.Local)
	if err != nil {
		writeBadRequest(w, "Invalid from date", "from must be in "+utils.DateFormat+" format")
		return
	}
	to, err := time.ParseInLocation(utils.DateFormat, r.URL.Query().Get("to"), time.Local)
	if err != nil {
		writeBadRequest(w, "Invalid to date", "to must be in "+utils.DateFormat+" format")
		return
	}

	var kind *string
	if kindString := r.URL.Query().Get("kind"); kindString != "" {
		kind = &kindString
	}

	entries, err := h.service.Entries(r.Context(), from, to, kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csvExport, err := h.csvRenderer.Render(entries)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csvExport)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	entryDTOs := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		entryDTOs = append(entryDTOs, entryToDTO(entry))
	}
	if err := json.NewEncoder(w).Encode(entryDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func entryToDTO(entry Entry) EntryDTO {
	entryDTO := EntryDTO{
		ID:             entry.ID,
		Date:           entry.Date.Format(time.RFC3339),
		Kind:           entry.Kind,
		Delta:          entry.Delta,
		Balance:        entry.Balance,
		DeltaDisplay:   FormatAmount(entry.Kind, entry.Delta),
		BalanceDisplay: FormatAmount(entry.Kind, entry.Balance),
		Note:           entry.Note,
	}
	if entry.AffectedDate != nil {
		entryDTO.AffectedDate = entry.AffectedDate.Format(utils.DateFormat)
	}
	return entryDTO
}
