package strategy

import (
	"net/http"

	"github.com/frankotendo/geolevelup/internal/rest"
)

type PathDTO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Synergies   []string `json:"synergies"`
	ActionItems []string `json:"actionItems"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStrategies godoc
// @Summary Get the last generated strategy paths
// @Tags Strategy
// @Produce json
// @Success 200 {array} PathDTO
// @Router /api/strategy [get]
// @Security XUserId
func (h *Handler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	paths, err := h.service.Current(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
		return
	}
	rest.WriteJSON(w, toDTOs(paths))
}

// GenerateStrategies godoc
// @Summary Generate new strategy paths for the current profile
// @Tags Strategy
// @Produce json
// @Success 200 {array} PathDTO
// @Router /api/strategy [post]
// @Security XUserId
func (h *Handler) GenerateStrategies(w http.ResponseWriter, r *http.Request) {
	paths, err := h.service.Generate(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
		return
	}
	rest.WriteJSON(w, toDTOs(paths))
}

func toDTOs(paths []Path) []PathDTO {
	dtos := make([]PathDTO, 0, len(paths))
	for _, p := range paths {
		dtos = append(dtos, PathDTO{
			Title:       p.Title,
			Description: p.Description,
			Synergies:   nonNil(p.Synergies),
			ActionItems: nonNil(p.ActionItems),
		})
	}
	return dtos
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
