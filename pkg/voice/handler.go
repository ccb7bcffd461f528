package voice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
)

type SessionDTO struct {
	State     string   `json:"state"`
	Persona   string   `json:"persona,omitempty"`
	VoiceName string   `json:"voiceName,omitempty"`
	Resources []string `json:"resources"`
}

type StartRequest struct {
	Resources []string `json:"resources"`
}

type TransitionRequest struct {
	State  string `json:"state"`
	Reason string `json:"reason"`
}

type StopResultDTO struct {
	Previous string   `json:"previous"`
	Released []string `json:"released"`
}

const stateFailed = "failed"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSession godoc
// @Summary Get the voice session state
// @Tags Voice
// @Produce json
// @Success 200 {object} SessionDTO
// @Router /api/voice [get]
// @Security XUserId
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toSessionDTO(session))
}

// Start godoc
// @Summary Start connecting a voice session
// @Tags Voice
// @Accept json
// @Produce json
// @Param session body StartRequest false "Audio resources the client holds"
// @Success 200 {object} SessionDTO
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/voice [post]
// @Security XUserId
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	userId, _ := profile.CurrentId(r.Context())
	releasers := make([]Releaser, 0, len(req.Resources))
	for _, name := range req.Resources {
		releasers = append(releasers, Releaser{
			Name: name,
			Release: func() {
				log.Debugf("voice resource %s of user %d released", name, userId)
			},
		})
	}
	session, err := h.service.Start(r.Context(), releasers...)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toSessionDTO(session))
}

// Transition godoc
// @Summary Report a voice session state change
// @Tags Voice
// @Accept json
// @Produce json
// @Param transition body TransitionRequest true "listening, speaking or failed"
// @Success 200 {object} SessionDTO
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/voice [patch]
// @Security XUserId
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	if req.State == stateFailed {
		result, err := h.service.Fail(r.Context(), req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		rest.WriteJSON(w, toStopResultDTO(result))
		return
	}
	session, err := h.service.Transition(r.Context(), State(req.State))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toSessionDTO(session))
}

// Stop godoc
// @Summary Stop the voice session and release its resources
// @Tags Voice
// @Produce json
// @Success 200 {object} StopResultDTO
// @Router /api/voice [delete]
// @Security XUserId
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Stop(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, toStopResultDTO(result))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		rest.WriteError(w, http.StatusConflict, "Invalid voice session transition", err.Error())
	case errors.Is(err, profile.ErrNoProfile):
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toSessionDTO(s Session) SessionDTO {
	resources := s.Resources
	if resources == nil {
		resources = []string{}
	}
	return SessionDTO{
		State:     string(s.State),
		Persona:   s.Persona,
		VoiceName: s.VoiceName,
		Resources: resources,
	}
}

func toStopResultDTO(r StopResult) StopResultDTO {
	released := r.Released
	if released == nil {
		released = []string{}
	}
	return StopResultDTO{Previous: string(r.Previous), Released: released}
}
