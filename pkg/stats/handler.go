package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/frankotendo/geolevelup/internal/rest"
	log "github.com/sirupsen/logrus"
)

type StatsDTO struct {
	Level               int       `json:"level"`
	CurrentXP           int       `json:"currentXp"`
	NextLevelXP         int       `json:"nextLevelXp"`
	ProgressPercent     int       `json:"progressPercent"`
	StreakDays          int       `json:"streakDays"`
	LastActiveDate      time.Time `json:"lastActiveDate"`
	TotalTasksCompleted int       `json:"totalTasksCompleted"`
	TotalFocusMinutes   int       `json:"totalFocusMinutes"`
}

type AwardXPRequest struct {
	Amount       int `json:"amount"`
	FocusMinutes int `json:"focusMinutes"`
}

type Handler struct {
	service  Service
	renderer StatsRenderer
}

func NewHandler(service Service, renderer StatsRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetStats godoc
// @Summary Get the current user's level, XP and streak
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Success 200 {object} StatsDTO
// @Router /api/stats [get]
// @Security XUserId
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.renderer.RenderStats(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv stats: %v", err)
		}
		return
	}
	rest.WriteJSON(w, ToDTO(s))
}

// AwardXP godoc
// @Summary Award XP to the current user
// @Tags Stats
// @Accept json
// @Produce json
// @Param award body AwardXPRequest true "Award"
// @Success 200 {object} StatsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/stats/xp [post]
// @Security XUserId
func (h *Handler) AwardXP(w http.ResponseWriter, r *http.Request) {
	var req AwardXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	s, err := h.service.AwardXP(r.Context(), req.Amount, req.FocusMinutes)
	if err != nil {
		if errors.Is(err, ErrNegativeAward) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid award", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, ToDTO(s))
}

// ResetStats godoc
// @Summary Reset the current user's progress
// @Tags Stats
// @Success 204
// @Router /api/stats [delete]
// @Security XUserId
func (h *Handler) ResetStats(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetStats(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ToDTO(s UserStats) StatsDTO {
	return StatsDTO{
		Level:               s.Level,
		CurrentXP:           s.CurrentXP,
		NextLevelXP:         s.NextLevelXP,
		ProgressPercent:     ProgressPercent(s),
		StreakDays:          s.StreakDays,
		LastActiveDate:      s.LastActiveDate,
		TotalTasksCompleted: s.TotalTasksCompleted,
		TotalFocusMinutes:   s.TotalFocusMinutes,
	}
}
