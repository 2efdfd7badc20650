package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/stempel/stempel/internal/rest"
	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID        int    `json:"id"`
	UID       string `json:"uid"`
	Time      string `json:"time"`
	Kind      string `json:"kind"`
	Generated bool   `json:"generated"`
}

type EventHandler struct {
	eventService EventService
	clock        utils.Clock
}

func NewEventHandler(eventService EventService, clock utils.Clock) *EventHandler {
	return &EventHandler{eventService, clock}
}

func (e *EventHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Recording new clock event")

	var recordRequest struct {
		Kind string `json:"kind"`
		Time string `json:"time"`
	}

	if err := json.NewDecoder(r.Body).Decode(&recordRequest); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	kind, ok := ParseKind(recordRequest.Kind)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event kind",
			Details: "kind must be open or close",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	at := e.clock.Now()
	if len(recordRequest.Time) > 0 {
		parsed, err := time.Parse(time.RFC3339, recordRequest.Time)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid time format",
				Details: "time must be in RFC3339 format",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		at = parsed
	}

	storedEvent, err := e.eventService.Record(r.Context(), at, kind)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(storedEvent)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (e *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	var kind *Kind
	if kindString := r.URL.Query().Get("kind"); kindString != "" {
		parsed, ok := ParseKind(kindString)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			if err := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid event kind",
				Details: "kind must be open or close",
			}); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		kind = &parsed
	}

	events, err := e.eventService.EventsInRange(r.Context(), from, to, kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	eventDTOs := make([]EventDTO, 0, len(events))
	for _, event := range events {
		eventDTOs = append(eventDTOs, eventToDTO(event))
	}
	if err := json.NewEncoder(w).Encode(eventDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")

	from, err := time.ParseInLocation(utils.DateFormat, fromString, time.Local)
	if err != nil {
		writeDateError(w, "from")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation(utils.DateFormat, toString, time.Local)
	if err != nil {
		writeDateError(w, "to")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
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

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		ID:        e.ID,
		UID:       e.UID,
		Time:      e.Time.Format(time.RFC3339),
		Kind:      string(e.Kind),
		Generated: e.Generated,
	}
}
