package handlers

import (
	"net/http"

	"date-journal-backend/internal/services"
)

// StatsHandler serves aggregates and achieved milestones
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to compute stats")
		return
	}
	respondJSON(w, stats, http.StatusOK)
}

// ListMilestones handles GET /api/v1/milestones
func (h *StatsHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.statsService.Milestones(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to list milestones")
		return
	}
	respondJSON(w, map[string]interface{}{"milestones": milestones}, http.StatusOK)
}
