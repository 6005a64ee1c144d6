package models

import "github.com/railhub/planner/internal/planner"

// PlanRequest is the POST /api/plan body.
type PlanRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	SearchType  string `json:"search_type" validate:"omitempty,oneof=depart_by arrive_by"`
	Time        string `json:"time"`
	// Pointer so an explicit zero survives the default.
	TransitionTime *int `json:"transition_time" validate:"omitempty,gte=0"`
}

// DetailsRequest is the POST /api/details body.
type DetailsRequest struct {
	TripID      string `json:"trip_id" validate:"required"`
	Agency      string `json:"agency" validate:"required"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// TripSummary is the wire form of one leg.
type TripSummary struct {
	ID        string `json:"id"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Status    string `json:"status,omitempty"`
}

// Itinerary is one entry of the plan response.
type Itinerary struct {
	PrimaryTrip TripSummary   `json:"primary_trip"`
	Connections []TripSummary `json:"connections"`
	LegType     string        `json:"leg_type"`
}

// FromPlannerItineraries converts planner results to the wire contract. The
// connections array is always present, empty for single-network results.
func FromPlannerItineraries(results []planner.Itinerary) []Itinerary {
	out := make([]Itinerary, 0, len(results))
	for _, it := range results {
		connections := make([]TripSummary, 0, len(it.Connections))
		for _, leg := range it.Connections {
			connections = append(connections, summarize(leg))
		}
		out = append(out, Itinerary{
			PrimaryTrip: summarize(it.Primary),
			Connections: connections,
			LegType:     it.LegType,
		})
	}
	return out
}

func summarize(leg planner.Leg) TripSummary {
	return TripSummary{
		ID:        leg.TripID,
		Departure: leg.Departure,
		Arrival:   leg.Arrival,
		Status:    leg.Status,
	}
}
