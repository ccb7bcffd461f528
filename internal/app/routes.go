package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Profile
	r.HandleFunc("/api/profile/current", deps.ProfileHandler.CurrentProfile).Methods("GET")
	r.HandleFunc("/api/profile/current", deps.ProfileHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/profile/current/notifications", deps.ProfileHandler.UpdateNotificationPermission).Methods("PUT")
	r.HandleFunc("/api/profile", deps.ProfileHandler.CreateProfile).Methods("POST")
	r.HandleFunc("/api/profile", deps.ProfileHandler.ListProfiles).Methods("GET")
	r.HandleFunc("/api/profile/{uid}", deps.ProfileHandler.DeleteProfile).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/stats/xp", deps.StatsHandler.AwardXP).Methods("POST")
	r.HandleFunc("/api/stats", deps.StatsHandler.ResetStats).Methods("DELETE")

	// Daily plan
	r.HandleFunc("/api/plan", deps.PlanHandler.GetPlan).Methods("GET")
	r.HandleFunc("/api/plan", deps.PlanHandler.DeletePlan).Methods("DELETE")
	r.HandleFunc("/api/plan/export.ics", deps.PlanHandler.ExportICS).Methods("GET")
	r.HandleFunc("/api/plan/export/google", deps.GoogleHandler.ExportPlan).Methods("POST")

	// Tracker
	r.HandleFunc("/api/tracker", deps.TrackerHandler.GetMarks).Methods("GET")
	r.HandleFunc("/api/tracker/completion", deps.TrackerHandler.ToggleCompletion).Methods("PUT")
	r.HandleFunc("/api/tracker/reminder", deps.TrackerHandler.ToggleReminder).Methods("PUT")

	// Focus
	r.HandleFunc("/api/focus", deps.FocusHandler.GetStatus).Methods("GET")
	r.HandleFunc("/api/focus", deps.FocusHandler.Start).Methods("POST")
	r.HandleFunc("/api/focus", deps.FocusHandler.Toggle).Methods("PATCH")
	r.HandleFunc("/api/focus", deps.FocusHandler.End).Methods("DELETE")

	// Strategy
	r.HandleFunc("/api/strategy", deps.StrategyHandler.GetStrategies).Methods("GET")
	r.HandleFunc("/api/strategy", deps.StrategyHandler.GenerateStrategies).Methods("POST")

	// Voice
	r.HandleFunc("/api/voice", deps.VoiceHandler.GetSession).Methods("GET")
	r.HandleFunc("/api/voice", deps.VoiceHandler.Start).Methods("POST")
	r.HandleFunc("/api/voice", deps.VoiceHandler.Transition).Methods("PATCH")
	r.HandleFunc("/api/voice", deps.VoiceHandler.Stop).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetSummary).Methods("GET")
}
