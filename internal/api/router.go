package api

import (
	"haul-turn-planner/internal/api/handlers"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(registry *domain.ProfileRegistry, provider ports.IntersectionProvider, cache ports.PathCache) http.Handler {
	mux := http.NewServeMux()

	profileHandler := &handlers.ProfileHandler{Registry: registry}
	pathHandler := &handlers.PathHandler{Registry: registry, Cache: cache}
	turnHandler := &handlers.TurnHandler{
		Registry: registry,
		Provider: provider,
		Cache:    cache,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/profiles", profileHandler.List)
	mux.HandleFunc("/paths", pathHandler.Plan)
	mux.HandleFunc("/turns", turnHandler.Plan)
	mux.HandleFunc("/intersections/{id}/turns", turnHandler.PlanIntersection)

	// requestID runs first so the logger sees the id.
	return requestIDMiddleware(loggingMiddleware(mux))
}
