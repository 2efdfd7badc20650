package template

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stempel/stempel/internal/rest"
	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

type TemplateDTO struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name"`
	Position          string     `json:"position,omitempty"`
	Location          string     `json:"location,omitempty"`
	StartDate         string     `json:"startDate"`
	EndDate           string     `json:"endDate,omitempty"`
	WeekdayHours      [7]float64 `json:"weekdayHours"`
	StandardStart     string     `json:"standardStart"`
	StandardEnd       string     `json:"standardEnd"`
	LunchBreakMinutes int        `json:"lunchBreakMinutes"`
}

type SkippedDayDTO struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

type ApplyResultDTO struct {
	DaysApplied int             `json:"daysApplied"`
	Skipped     []SkippedDayDTO `json:"skipped"`
}

type Handler struct {
	service     Service
	applier     Applier
	clock       utils.Clock
	horizonDays int
}

func NewHandler(service Service, applier Applier, clock utils.Clock, horizonDays int) *Handler {
	return &Handler{service, applier, clock, horizonDays}
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	templates, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	templateDTOs := make([]TemplateDTO, 0, len(templates))
	for _, template := range templates {
		templateDTOs = append(templateDTOs, templateToDTO(template))
	}
	if err := json.NewEncoder(w).Encode(templateDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpsertTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Upserting work template")

	var templateDTO TemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&templateDTO); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	template, err := templateFromDTO(templateDTO)
	if err != nil {
		writeBadRequest(w, "Invalid template", err.Error())
		return
	}

	stored, err := h.service.Upsert(r.Context(), template)
	if err != nil {
		if isValidationError(err) {
			writeBadRequest(w, "Invalid template", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(templateToDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	templateId := mux.Vars(r)["templateId"]
	template, err := h.service.Get(r.Context(), templateId)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	overwrite := r.URL.Query().Get("overwrite") == "true"

	horizon := h.clock.Now().AddDate(0, 0, h.horizonDays)
	if untilString := r.URL.Query().Get("until"); untilString != "" {
		until, err := time.ParseInLocation(utils.DateFormat, untilString, time.Local)
		if err != nil {
			writeBadRequest(w, "Invalid until date", "until must be in "+utils.DateFormat+" format")
			return
		}
		horizon = until
	}

	result, err := h.applier.Apply(r.Context(), template, overwrite, horizon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(applyResultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message string, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrHoursOutOfRange) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrNegativeLunch)
}

func templateToDTO(t Template) TemplateDTO {
	templateDTO := TemplateDTO{
		ID:                t.ID,
		Name:              t.Name,
		Position:          t.Position,
		Location:          t.Location,
		StartDate:         t.StartDate.Format(utils.DateFormat),
		WeekdayHours:      t.WeekdayHours,
		StandardStart:     t.StandardStart.String(),
		StandardEnd:       t.StandardEnd.String(),
		LunchBreakMinutes: int(t.LunchBreak.Minutes()),
	}
	if t.EndDate != nil {
		templateDTO.EndDate = t.EndDate.Format(utils.DateFormat)
	}
	return templateDTO
}

func templateFromDTO(templateDTO TemplateDTO) (Template, error) {
	startDate, err := time.ParseInLocation(utils.DateFormat, templateDTO.StartDate, time.Local)
	if err != nil {
		return Template{}, errors.New("startDate must be in " + utils.DateFormat + " format")
	}

	var endDate *time.Time
	if templateDTO.EndDate != "" {
		parsed, err := time.ParseInLocation(utils.DateFormat, templateDTO.EndDate, time.Local)
		if err != nil {
			return Template{}, errors.New("endDate must be in " + utils.DateFormat + " format")
		}
		endDate = &parsed
	}

	standardStart, err := ParseDayTime(templateDTO.StandardStart)
	if err != nil {
		return Template{}, err
	}
	standardEnd, err := ParseDayTime(templateDTO.StandardEnd)
	if err != nil {
		return Template{}, err
	}

	return Template{
		ID:            templateDTO.ID,
		Name:          templateDTO.Name,
		Position:      templateDTO.Position,
		Location:      templateDTO.Location,
		StartDate:     startDate,
		EndDate:       endDate,
		WeekdayHours:  templateDTO.WeekdayHours,
		StandardStart: standardStart,
		StandardEnd:   standardEnd,
		LunchBreak:    time.Duration(templateDTO.LunchBreakMinutes) * time.Minute,
	}, nil
}

func applyResultToDTO(result ApplyResult) ApplyResultDTO {
	skipped := make([]SkippedDayDTO, 0, len(result.Skipped))
	for _, day := range result.Skipped {
		skipped = append(skipped, SkippedDayDTO{
			Date:   day.Date.Format(utils.DateFormat),
			Reason: string(day.Reason),
		})
	}
	return ApplyResultDTO{DaysApplied: result.DaysApplied, Skipped: skipped}
}
