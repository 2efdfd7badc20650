package app

import (
	"github.com/gorilla/mux"
	"github.com/stempel/stempel/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Clock events
	r.HandleFunc("/api/event", deps.EventHandler.RecordEvent).Methods("POST")
	r.HandleFunc("/api/event", deps.EventHandler.GetEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Work templates
	r.HandleFunc("/api/template", deps.TemplateHandler.ListTemplates).Methods("GET")
	r.HandleFunc("/api/template", deps.TemplateHandler.UpsertTemplate).Methods("POST")
	r.HandleFunc("/api/template/{templateId}/apply", deps.TemplateHandler.ApplyTemplate).Methods("POST")

	// Day summaries
	r.HandleFunc("/api/summary", deps.SummaryHandler.GetSummaries).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Account log
	r.HandleFunc("/api/ledger", deps.LedgerHandler.AppendEntry).Methods("POST")
	r.HandleFunc("/api/ledger", deps.LedgerHandler.GetEntries).Queries("from", "{from}", "to", "{to}").Methods("GET")
}
