package handlers

import (
	"errors"
	"net/http"

	"github.com/railhub/planner/internal/planner"
)

// GetDepartures handles GET /api/departures.
// The live feed is the only data source here, so its absence is a 503,
// retryable and distinct from a valid empty board.
func (h *PlanHandler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	departures, err := h.svc.TerminalDepartures(r.Context())
	if err != nil {
		if errors.Is(err, planner.ErrUpstreamUnavailable) {
			h.metrics.LiveFeedErrors.Inc()
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Error: "Live departure feed unavailable",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to retrieve departures",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	if departures == nil {
		departures = []planner.LiveDeparture{}
	}
	writeJSON(w, http.StatusOK, departures)
}
