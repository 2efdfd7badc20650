package app

import (
	"database/sql"

	"github.com/stempel/stempel/internal/config"
	"github.com/stempel/stempel/internal/utils"
	"github.com/stempel/stempel/pkg/event"
	"github.com/stempel/stempel/pkg/ledger"
	"github.com/stempel/stempel/pkg/summary"
	"github.com/stempel/stempel/pkg/template"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventRepo    event.EventRepository
	EventService event.EventService
	EventHandler *event.EventHandler

	TemplateRepo    template.Repository
	TemplateService template.Service
	TemplateApplier template.Applier
	TemplateHandler *template.Handler

	SummaryService *summary.ServiceImpl
	SummaryHandler *summary.Handler

	LedgerRepo     ledger.Repository
	LedgerService  ledger.Service
	LedgerRenderer *ledger.CsvRendererImpl
	LedgerHandler  *ledger.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.EventRepo = event.NewEventRepo(db)
	deps.EventService = event.NewEventService(deps.EventRepo)
	deps.EventHandler = event.NewEventHandler(deps.EventService, deps.Clock)

	deps.TemplateRepo = template.NewRepository(db)
	deps.TemplateService = template.NewService(deps.TemplateRepo)
	deps.TemplateApplier = template.NewApplier(deps.EventService)
	deps.TemplateHandler = template.NewHandler(deps.TemplateService, deps.TemplateApplier, deps.Clock, cfg.Applier.HorizonDays)

	deps.SummaryService = summary.NewService(deps.EventService, deps.TemplateService)
	deps.SummaryHandler = summary.NewHandler(deps.SummaryService)

	deps.LedgerRepo = ledger.NewRepository(db)
	deps.LedgerService = ledger.NewService(deps.LedgerRepo)
	deps.LedgerRenderer = ledger.NewCsvRenderer()
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService, deps.LedgerRenderer, deps.Clock)

	return deps
}
