package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/railhub/planner/internal/models"
	"github.com/railhub/planner/internal/planner"
)

// GetTripDetails handles POST /api/details.
// Returns the trip's ordered stop calls, trimmed to the origin/destination
// window when both codes are supplied; an unknown trip yields an empty list.
func (h *PlanHandler) GetTripDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.DetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Missing or invalid fields",
			Details: map[string]interface{}{
				"validation": err.Error(),
			},
		})
		return
	}

	stops, err := h.svc.TripDetails(ctx, req.TripID, req.Agency, req.Origin, req.Destination)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to retrieve trip details",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}
	h.metrics.DetailRequests.Inc()

	if stops == nil {
		stops = []planner.StopTimeEntry{}
	}
	writeJSON(w, http.StatusOK, stops)
}
