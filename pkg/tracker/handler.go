package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
)

type MarksDTO struct {
	Done      []string `json:"done"`
	Reminders []string `json:"reminders"`
}

type ToggleResultDTO struct {
	MarksDTO
	ItemId             string `json:"itemId"`
	IsDone             bool   `json:"isDone"`
	HasReminder        bool   `json:"hasReminder"`
	XPAwarded          int    `json:"xpAwarded"`
	PermissionRequired bool   `json:"permissionRequired"`
}

// DefaultCompletionXP is awarded when a completion request does not name an amount.
const DefaultCompletionXP = 50

// MaxItemIdLength matches the item_id column of day_item_mark.
const MaxItemIdLength = 64

type CompletionRequest struct {
	ItemId string `json:"itemId"`
	XP     *int   `json:"xp,omitempty"`
}

type ReminderRequest struct {
	ItemId string `json:"itemId"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// GetMarks godoc
// @Summary Get completed and reminder-armed items of a day
// @Tags Tracker
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} MarksDTO
// @Router /api/tracker [get]
// @Security XUserId
func (h *Handler) GetMarks(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	marks, err := h.service.GetMarks(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, toMarksDTO(marks))
}

// ToggleCompletion godoc
// @Summary Toggle the done mark of an item
// @Tags Tracker
// @Accept json
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Param completion body CompletionRequest true "Item and XP to award when completing (default 50)"
// @Success 200 {object} ToggleResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/tracker/completion [put]
// @Security XUserId
func (h *Handler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if !validItemId(w, req.ItemId) {
		return
	}
	xp := DefaultCompletionXP
	if req.XP != nil {
		xp = *req.XP
	}
	result, err := h.service.ToggleCompletion(r.Context(), date, req.ItemId, xp)
	if err != nil {
		writeToggleError(w, err)
		return
	}
	rest.WriteJSON(w, toResultDTO(req.ItemId, result))
}

// ToggleReminder godoc
// @Summary Toggle the reminder mark of an item
// @Tags Tracker
// @Accept json
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Param reminder body ReminderRequest true "Item"
// @Success 200 {object} ToggleResultDTO
// @Router /api/tracker/reminder [put]
// @Security XUserId
func (h *Handler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	date, ok := profile.RequestDate(w, r, h.clock.Now())
	if !ok {
		return
	}
	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if !validItemId(w, req.ItemId) {
		return
	}
	result, err := h.service.ToggleReminder(r.Context(), date, req.ItemId)
	if err != nil {
		writeToggleError(w, err)
		return
	}
	rest.WriteJSON(w, toResultDTO(req.ItemId, result))
}

func validItemId(w http.ResponseWriter, itemId string) bool {
	switch {
	case strings.TrimSpace(itemId) == "":
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "itemId is required")
		return false
	case len(itemId) > MaxItemIdLength:
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format",
			fmt.Sprintf("itemId must be at most %d characters", MaxItemIdLength))
		return false
	}
	return true
}

func writeToggleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stats.ErrNegativeAward):
		rest.WriteError(w, http.StatusBadRequest, "Invalid XP", err.Error())
	case errors.Is(err, profile.ErrNoProfile):
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toMarksDTO(m Marks) MarksDTO {
	return MarksDTO{Done: nonNil(m.Done), Reminders: nonNil(m.Reminders)}
}

func toResultDTO(itemId string, result ToggleResult) ToggleResultDTO {
	return ToggleResultDTO{
		MarksDTO:           toMarksDTO(result.Marks),
		ItemId:             itemId,
		IsDone:             result.Done,
		HasReminder:        result.Reminder,
		XPAwarded:          result.XPAwarded,
		PermissionRequired: result.PermissionRequired,
	}
}
