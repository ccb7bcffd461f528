package dashboard

import (
	"errors"
	"net/http"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
)

type SummaryDTO struct {
	Name           string         `json:"name"`
	FirstName      string         `json:"firstName"`
	BusinessName   string         `json:"businessName"`
	GoalCount      int            `json:"goalCount"`
	Stats          stats.StatsDTO `json:"stats"`
	Date           string         `json:"date"`
	HasPlan        bool           `json:"hasPlan"`
	FocusOfTheDay  string         `json:"focusOfTheDay"`
	ScheduledItems int            `json:"scheduledItems"`
	CompletedItems int            `json:"completedItems"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSummary godoc
// @Summary Get the dashboard summary for today
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SummaryDTO
// @Router /api/dashboard [get]
// @Security XUserId
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, SummaryDTO{
		Name:           summary.Name,
		FirstName:      summary.FirstName,
		BusinessName:   summary.BusinessName,
		GoalCount:      summary.GoalCount,
		Stats:          stats.ToDTO(summary.Stats),
		Date:           summary.Date,
		HasPlan:        summary.HasPlan,
		FocusOfTheDay:  summary.FocusOfTheDay,
		ScheduledItems: summary.ScheduledItems,
		CompletedItems: summary.CompletedItems,
	})
}
