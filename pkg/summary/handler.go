package summary

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stempel/stempel/internal/rest"
	"github.com/stempel/stempel/internal/utils"
)

type DaySummaryDTO struct {
	Date          string   `json:"date"`
	OpenTime      string   `json:"openTime,omitempty"`
	CloseTime     string   `json:"closeTime,omitempty"`
	WorkedHours   *float64 `json:"workedHours,omitempty"`
	StandardHours float64  `json:"standardHours"`
	DeltaHours    *float64 `json:"deltaHours,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, err := time.ParseInLocation(utils.DateFormat, r.URL.Query().Get("from"), time.Local)
	if err != nil {
		writeDateError(w, "from")
		return
	}
	to, err := time.ParseInLocation(utils.DateFormat, r.URL.Query().Get("to"), time.Local)
	if err != nil {
		writeDateError(w, "to")
		return
	}

	summaries, err := h.service.Summarize(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaryDTOs := make([]DaySummaryDTO, 0, len(summaries))
	for _, daySummary := range summaries {
		summaryDTOs = append(summaryDTOs, summaryToDTO(daySummary))
	}
	if err := json.NewEncoder(w).Encode(summaryDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeDateError(w http.ResponseWriter, param string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Invalid " + param + " date",
		Details: param + " must be in " + utils.DateFormat + " format",
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryToDTO(s DaySummary) DaySummaryDTO {
	summaryDTO := DaySummaryDTO{
		Date:          s.Date.Format(utils.DateFormat),
		WorkedHours:   s.WorkedHours,
		StandardHours: s.StandardHours,
		DeltaHours:    s.DeltaHours,
	}
	if s.OpenedAt != nil {
		summaryDTO.OpenTime = s.OpenedAt.Format("15:04")
	}
	if s.ClosedAt != nil {
		summaryDTO.CloseTime = s.ClosedAt.Format("15:04")
	}
	return summaryDTO
}
