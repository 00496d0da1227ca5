package handlers

import (
	"haul-turn-planner/internal/api/dto"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
	"haul-turn-planner/internal/services"
	"net/http"
	"strings"
)

// PathHandler plans a path between two explicit poses.
type PathHandler struct {
	Registry *domain.ProfileRegistry
	Cache    ports.PathCache
}

func (h *PathHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PathRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Start == nil || req.Goal == nil {
		writeError(w, r, http.StatusBadRequest, "start and goal are required")
		return
	}

	step, err := resolveStepSize(req.StepSizeM)
	if err != nil {
		writeServiceError(w, r, "plan path", err)
		return
	}

	hasProfile := strings.TrimSpace(req.ProfileID) != "" || req.Profile != nil
	if req.TurningRadiusM != nil && hasProfile {
		writeError(w, r, http.StatusBadRequest, "turning_radius_m cannot be combined with profile_id or profile")
		return
	}

	var plan *domain.TurnPlan
	if req.TurningRadiusM != nil {
		plan, err = services.PlanPath(r.Context(), services.PlanPathRequest{
			Start:          req.Start.ToDomain(),
			Goal:           req.Goal.ToDomain(),
			TurningRadiusM: *req.TurningRadiusM,
			StepSizeM:      step,
		}, h.Cache)
	} else {
		profileID, profile, rerr := services.ResolveProfile(h.Registry, req.ProfileID, req.Profile.ToDomain())
		if rerr != nil {
			writeServiceError(w, r, "plan path", rerr)
			return
		}
		plan, err = services.PlanProfilePath(r.Context(), req.Start.ToDomain(), req.Goal.ToDomain(), profileID, profile, step, h.Cache)
	}
	if err != nil {
		writeServiceError(w, r, "plan path", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}
