package gcalendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
)

type PlanReader interface {
	StoredOrFallback(ctx context.Context, date time.Time) (plan.DailyPlan, error)
}

type ExportResultDTO struct {
	CalendarId string   `json:"calendarId"`
	Exported   int      `json:"exported"`
	EventIds   []string `json:"eventIds"`
}

type Handler struct {
	plans    PlanReader
	exporter Exporter
	clock    utils.Clock
}

func NewHandler(plans PlanReader, exporter Exporter, clock utils.Clock) *Handler {
	return &Handler{plans: plans, exporter: exporter, clock: clock}
}

// ExportPlan godoc
// @Summary Push the plan of a day into Google Calendar
// @Tags Plan
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} ExportResultDTO
// @Failure 503 {object} rest.ErrorResponse
// @Router /api/plan/export/google [post]
// @Security XUserId
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	p, err := h.plans.StoredOrFallback(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := h.exporter.ExportPlan(r.Context(), p, date, date.Location())
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			rest.WriteError(w, http.StatusServiceUnavailable, "Google Calendar export is not configured", err.Error())
			return
		}
		rest.WriteError(w, http.StatusBadGateway, "Google Calendar export failed", err.Error())
		return
	}
	rest.WriteJSON(w, ExportResultDTO{
		CalendarId: result.CalendarId,
		Exported:   len(result.EventIds),
		EventIds:   result.EventIds,
	})
}
