package plan

import (
	"fmt"
	"net/http"
	"time"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
)

type ScheduleItemDTO struct {
	Id          string `json:"id"`
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type DailyPlanDTO struct {
	Date          string            `json:"date"`
	DayOfWeek     string            `json:"dayOfWeek"`
	FocusOfTheDay string            `json:"focusOfTheDay"`
	Tips          []string          `json:"tips"`
	Schedule      []ScheduleItemDTO `json:"schedule"`
	GeneratedAt   time.Time         `json:"generatedAt"`
	Fallback      bool              `json:"fallback"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// GetPlan godoc
// @Summary Get the plan of a day, generating it when needed
// @Tags Plan
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Param force query bool false "Regenerate even when a plan is stored"
// @Success 200 {object} DailyPlanDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/plan [get]
// @Security XUserId
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"

	p, err := h.service.GetPlan(r.Context(), date, force)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, ToDTO(p))
}

// DeletePlan godoc
// @Summary Remove the stored plan of a day
// @Tags Plan
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 204
// @Router /api/plan [delete]
// @Security XUserId
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	if err := h.service.DeletePlan(r.Context(), date); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportICS godoc
// @Summary Download the plan of a day as an iCalendar file
// @Tags Plan
// @Produce text/calendar
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {string} string
// @Router /api/plan/export.ics [get]
// @Security XUserId
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	p, err := h.service.StoredOrFallback(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body := RenderICS(p, date, date.Location(), h.clock.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"schedule_%s.ics\"", date.Format(utils.DateLayout)))
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar export: %v", err)
	}
}

func ToDTO(p DailyPlan) DailyPlanDTO {
	schedule := make([]ScheduleItemDTO, 0, len(p.Schedule))
	for _, item := range p.Schedule {
		schedule = append(schedule, ScheduleItemDTO{
			Id:          item.Id,
			Time:        item.Time,
			Activity:    item.Activity,
			Category:    string(item.Category),
			Description: item.Description,
		})
	}
	tips := p.Tips
	if tips == nil {
		tips = []string{}
	}
	return DailyPlanDTO{
		Date:          p.Date,
		DayOfWeek:     p.DayOfWeek,
		FocusOfTheDay: p.FocusOfTheDay,
		Tips:          tips,
		Schedule:      schedule,
		GeneratedAt:   p.GeneratedAt,
		Fallback:      p.Fallback,
	}
}
