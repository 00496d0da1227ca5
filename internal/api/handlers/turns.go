package handlers

import (
	"haul-turn-planner/internal/api/dto"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
	"haul-turn-planner/internal/services"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// TurnHandler plans turns through stored intersection movements.
type TurnHandler struct {
	Registry *domain.ProfileRegistry
	Provider ports.IntersectionProvider
	Cache    ports.PathCache
}

// Plan handles a single movement.
func (h *TurnHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.TurnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	iid := strings.TrimSpace(req.IntersectionID)
	from := strings.TrimSpace(req.FromRoadID)
	to := strings.TrimSpace(req.ToRoadID)
	if iid == "" || from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "intersection_id, from_road_id and to_road_id are required")
		return
	}

	step, err := resolveStepSize(req.StepSizeM)
	if err != nil {
		writeServiceError(w, r, "plan turn", err)
		return
	}

	plan, err := services.PlanTurn(r.Context(), services.PlanTurnRequest{
		IntersectionID: iid,
		FromRoadID:     from,
		ToRoadID:       to,
		ProfileID:      req.ProfileID,
		Profile:        req.Profile.ToDomain(),
		StepSizeM:      step,
	}, h.Registry, h.Provider, h.Cache)
	if err != nil {
		writeServiceError(w, r, "plan turn", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

// PlanIntersection handles every movement of the intersection in the path.
func (h *TurnHandler) PlanIntersection(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	iid := strings.TrimSpace(r.PathValue("id"))
	if iid == "" {
		writeError(w, r, http.StatusBadRequest, "intersection id is required")
		return
	}

	q := r.URL.Query()
	step, err := parseStepSizeQuery(q.Get("step_size_m"))
	if err != nil {
		writeServiceError(w, r, "plan intersection", err)
		return
	}

	plans, err := services.PlanIntersectionTurns(r.Context(), services.PlanIntersectionRequest{
		IntersectionID: iid,
		ProfileID:      q.Get("profile_id"),
		StepSizeM:      step,
	}, h.Registry, h.Provider, h.Cache)
	if err != nil {
		writeServiceError(w, r, "plan intersection", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlansResponse{
		IntersectionID: iid,
		Plans: lo.Map(plans, func(p *domain.TurnPlan, _ int) dto.PlanResponse {
			return dto.NewPlanResponse(p)
		}),
	})
}
