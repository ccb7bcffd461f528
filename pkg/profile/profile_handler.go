package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ProfileDTO struct {
	Uid                    string   `json:"uid"`
	Name                   string   `json:"name"`
	Major                  string   `json:"major"`
	Hobbies                []string `json:"hobbies"`
	BusinessName           string   `json:"businessName"`
	Sports                 []string `json:"sports"`
	WeekendSports          bool     `json:"weekendSports"`
	Goals                  []string `json:"goals"`
	SchoolSchedule         string   `json:"schoolSchedule"`
	Timezone               string   `json:"timezone"`
	NotificationPermission string   `json:"notificationPermission"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateProfile godoc
// @Summary Create a new profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body ProfileDTO true "Profile"
// @Success 201 {object} ProfileDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/profile [post]
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var dto ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	log.Tracef("Creating new profile: %+v", dto)

	created, err := h.service.Create(r.Context(), dtoToProfile(dto))
	if err != nil {
		if errors.Is(err, ErrProfileDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid profile data", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(profileToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CurrentProfile godoc
// @Summary Get current profile
// @Tags Profile
// @Produce json
// @Success 200 {object} ProfileDTO
// @Router /api/profile/current [get]
// @Security XUserId
func (h *Handler) CurrentProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetCurrent(r.Context())
	if err != nil {
		writeLookupError(w, err)
		return
	}
	rest.WriteJSON(w, profileToDTO(p))
}

// UpdateProfile godoc
// @Summary Update current profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body ProfileDTO true "Profile"
// @Success 200 {object} ProfileDTO
// @Router /api/profile/current [put]
// @Security XUserId
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	updated, err := h.service.Update(r.Context(), dtoToProfile(dto))
	if err != nil {
		if errors.Is(err, ErrProfileDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid profile data", err.Error())
			return
		}
		writeLookupError(w, err)
		return
	}
	rest.WriteJSON(w, profileToDTO(updated))
}

// UpdateNotificationPermission records the browser's notification permission outcome.
func (h *Handler) UpdateNotificationPermission(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Permission string `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	err := h.service.SetNotificationPermission(r.Context(), NotificationPermission(body.Permission))
	if err != nil {
		if errors.Is(err, ErrProfileDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid permission", "permission must be one of default, granted, denied")
			return
		}
		writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, profileToDTO(p))
	}
	rest.WriteJSON(w, dtos)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if err := h.service.Delete(r.Context(), uid); err != nil {
		writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoProfile):
		rest.WriteError(w, http.StatusForbidden, "Profile not selected", "X-User-Id header is required")
	case errors.Is(err, ErrProfileNotFound):
		rest.WriteError(w, http.StatusNotFound, "Profile not found", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func profileToDTO(p Profile) ProfileDTO {
	return ProfileDTO{
		Uid:                    p.Uid,
		Name:                   p.Name,
		Major:                  p.Major,
		Hobbies:                nonNil(p.Hobbies),
		BusinessName:           p.BusinessName,
		Sports:                 nonNil(p.Sports),
		WeekendSports:          p.WeekendSports,
		Goals:                  nonNil(p.Goals),
		SchoolSchedule:         p.SchoolSchedule,
		Timezone:               p.Timezone,
		NotificationPermission: string(p.Notifications),
	}
}

func dtoToProfile(dto ProfileDTO) Profile {
	return Profile{
		Uid:            dto.Uid,
		Name:           dto.Name,
		Major:          dto.Major,
		Hobbies:        dto.Hobbies,
		BusinessName:   dto.BusinessName,
		Sports:         dto.Sports,
		WeekendSports:  dto.WeekendSports,
		Goals:          dto.Goals,
		SchoolSchedule: dto.SchoolSchedule,
		Timezone:       dto.Timezone,
	}
}
