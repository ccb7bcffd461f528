package focus

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
)

type StatusDTO struct {
	State          string `json:"state"`
	Date           string `json:"date,omitempty"`
	ItemId         string `json:"itemId,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

type StartRequest struct {
	Date   string `json:"date"`
	ItemId string `json:"itemId"`
}

type EndResultDTO struct {
	ItemId         string `json:"itemId,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Minutes        int    `json:"minutes"`
	XP             int    `json:"xp"`
	Done           bool   `json:"done"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// GetStatus godoc
// @Summary Get the focus session state
// @Tags Focus
// @Produce json
// @Success 200 {object} StatusDTO
// @Router /api/focus [get]
// @Security XUserId
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toStatusDTO(status))
}

// Start godoc
// @Summary Start a focus session on a schedule item
// @Tags Focus
// @Accept json
// @Produce json
// @Param session body StartRequest true "Day and item"
// @Success 200 {object} StatusDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/focus [post]
// @Security XUserId
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	p, err := profile.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := utils.DateOrToday(req.Date, h.clock.Now(), p.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
		return
	}
	status, err := h.service.Start(r.Context(), date, req.ItemId)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toStatusDTO(status))
}

// Toggle godoc
// @Summary Pause or resume the focus session
// @Tags Focus
// @Produce json
// @Success 200 {object} StatusDTO
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/focus [patch]
// @Security XUserId
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Toggle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toStatusDTO(status))
}

// End godoc
// @Summary End the focus session and collect XP
// @Tags Focus
// @Produce json
// @Success 200 {object} EndResultDTO
// @Router /api/focus [delete]
// @Security XUserId
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.End(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, EndResultDTO{
		ItemId:         result.ItemId,
		ElapsedSeconds: result.ElapsedSeconds,
		Minutes:        result.Minutes,
		XP:             result.XP,
		Done:           result.Done,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoActiveSession):
		rest.WriteError(w, http.StatusConflict, "No active focus session", err.Error())
	case errors.Is(err, ErrItemRequired), errors.Is(err, stats.ErrNegativeAward):
		rest.WriteError(w, http.StatusBadRequest, "Invalid focus session", err.Error())
	case errors.Is(err, profile.ErrNoProfile):
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toStatusDTO(s Status) StatusDTO {
	dto := StatusDTO{
		State:          string(s.State),
		ItemId:         s.ItemId,
		ElapsedSeconds: s.ElapsedSeconds,
	}
	if !s.Date.IsZero() {
		dto.Date = s.Date.Format(utils.DateLayout)
	}
	return dto
}
