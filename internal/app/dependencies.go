package app

import (
	"github.com/frankotendo/geolevelup/internal/config"
	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/dashboard"
	"github.com/frankotendo/geolevelup/pkg/focus"
	"github.com/frankotendo/geolevelup/pkg/gateway"
	"github.com/frankotendo/geolevelup/pkg/gcalendar"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/reminder"
	"github.com/frankotendo/geolevelup/pkg/stats"
	"github.com/frankotendo/geolevelup/pkg/strategy"
	"github.com/frankotendo/geolevelup/pkg/tracker"
	"github.com/frankotendo/geolevelup/pkg/voice"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	ProfileService *profile.ServiceImpl
	ProfileHandler *profile.Handler

	Gemini *gateway.GeminiClient

	StatsService  *stats.ServiceImpl
	StatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler  *stats.Handler

	PlanService *plan.ServiceImpl
	PlanHandler *plan.Handler

	TrackerService *tracker.ServiceImpl
	TrackerHandler *tracker.Handler

	FocusService *focus.ServiceImpl
	FocusHandler *focus.Handler

	StrategyService *strategy.ServiceImpl
	StrategyHandler *strategy.Handler

	VoiceService *voice.ServiceImpl
	VoiceHandler *voice.Handler

	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.Handler

	GoogleExporter *gcalendar.GoogleExporter
	GoogleHandler  *gcalendar.Handler

	ReminderScheduler *reminder.Scheduler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.ProfileService = profile.NewService(profile.NewRepo(db))
	deps.ProfileHandler = profile.NewHandler(deps.ProfileService)

	deps.Gemini = gateway.NewGeminiClient(cfg.Gemini)

	deps.StatsService = stats.NewService(stats.NewRepository(db), deps.EventBus, deps.Clock)
	deps.StatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewHandler(deps.StatsService, deps.StatsRenderer)

	deps.PlanService = plan.NewService(plan.NewRepository(db), deps.Gemini, deps.EventBus, deps.Clock)
	deps.PlanHandler = plan.NewHandler(deps.PlanService, deps.Clock)

	deps.TrackerService = tracker.NewService(tracker.NewRepository(db), deps.StatsService, deps.EventBus)
	deps.TrackerHandler = tracker.NewHandler(deps.TrackerService, deps.Clock)

	deps.FocusService = focus.NewService(deps.TrackerService, deps.EventBus, deps.Clock)
	deps.FocusHandler = focus.NewHandler(deps.FocusService, deps.Clock)

	deps.StrategyService = strategy.NewService(deps.Gemini)
	deps.StrategyHandler = strategy.NewHandler(deps.StrategyService)

	deps.VoiceService = voice.NewService(deps.EventBus)
	deps.VoiceHandler = voice.NewHandler(deps.VoiceService)

	deps.DashboardService = dashboard.NewService(deps.StatsService, deps.PlanService, deps.TrackerService, deps.Clock)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService)

	deps.GoogleExporter = gcalendar.NewExporter(cfg.Google)
	deps.GoogleHandler = gcalendar.NewHandler(deps.PlanService, deps.GoogleExporter, deps.Clock)

	deps.ReminderScheduler = reminder.NewScheduler(deps.ProfileService, deps.PlanService, deps.TrackerService,
		deps.EventBus, deps.Clock, cfg.Reminders.LeadMinutes)

	return deps
}
