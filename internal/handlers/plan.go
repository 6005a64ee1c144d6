package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/railhub/planner/internal/metrics"
	"github.com/railhub/planner/internal/models"
	"github.com/railhub/planner/internal/planner"
)

// PlanService defines the planning operations the HTTP layer dispatches to.
type PlanService interface {
	Plan(ctx context.Context, req planner.PlanRequest) ([]planner.Itinerary, error)
	TripDetails(ctx context.Context, tripID, network, originCode, destCode string) ([]planner.StopTimeEntry, error)
	TerminalDepartures(ctx context.Context) ([]planner.LiveDeparture, error)
	Ping(ctx context.Context) error
}

// PlanHandler handles HTTP requests for itinerary planning.
type PlanHandler struct {
	svc      PlanService
	validate *validator.Validate
	metrics  *metrics.Collector
}

// NewPlanHandler creates a new handler over the given planning service.
func NewPlanHandler(svc PlanService, collector *metrics.Collector) *PlanHandler {
	return &PlanHandler{
		svc:      svc,
		validate: validator.New(),
		metrics:  collector,
	}
}

// ErrorResponse is the JSON error response structure.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

const (
	defaultSearchType = string(planner.DepartBy)
	defaultTargetTime = "08:00"
	defaultBufferMins = 20
)

// CreatePlan handles POST /api/plan.
// Malformed bodies are rejected before any schedule query runs; an empty
// itinerary list is a valid 200 response.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	var req models.PlanRequest
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

	if req.SearchType == "" {
		req.SearchType = defaultSearchType
	}
	if req.Time == "" {
		req.Time = defaultTargetTime
	}
	buffer := defaultBufferMins
	if req.TransitionTime != nil {
		buffer = *req.TransitionTime
	}

	results, err := h.svc.Plan(ctx, planner.PlanRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        planner.SearchMode(req.SearchType),
		TargetMins:  planner.MinutesOrZero(req.Time),
		Buffer:      buffer,
	})
	if err != nil {
		h.metrics.PlanErrors.Inc()
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to plan itinerary",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	h.metrics.PlanDuration.Observe(time.Since(started).Seconds())
	h.metrics.PlanRequests.WithLabelValues(legTypeLabel(results)).Inc()

	writeJSON(w, http.StatusOK, models.FromPlannerItineraries(results))
}

func legTypeLabel(results []planner.Itinerary) string {
	if len(results) == 0 {
		return "none"
	}
	return results[0].LegType
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
