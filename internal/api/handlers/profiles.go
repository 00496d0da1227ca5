package handlers

import (
	"haul-turn-planner/internal/api/dto"
	"haul-turn-planner/internal/domain"
	"net/http"
)

// ProfileHandler lists the registered vehicle profiles.
type ProfileHandler struct {
	Registry *domain.ProfileRegistry
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ids := h.Registry.IDs()
	res := dto.ListProfilesResponse{Profiles: make([]dto.ProfileResponse, 0, len(ids))}
	for _, id := range ids {
		p, err := h.Registry.Lookup(id)
		if err != nil {
			writeServiceError(w, r, "list profiles", err)
			return
		}
		res.Profiles = append(res.Profiles, dto.NewProfileResponse(id, p))
	}

	writeJSON(w, r, http.StatusOK, res)
}
