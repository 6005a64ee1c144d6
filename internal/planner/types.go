package planner

import "context"

// StopTimeEntry is one scheduled call within a trip. StopSequence is strictly
// increasing along the trip and is the only ordering signal; clock times are
// not, because overnight trips wrap past midnight.
type StopTimeEntry struct {
	StopID        string `json:"stop_id"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	StopSequence  int    `json:"stop_sequence"`
}

// Trip is an immutable schedule record owned by the store: an ordered stop
// call sequence plus identifiers. The planner never mutates one.
type Trip struct {
	TripID    string
	RouteID   string
	StopTimes []StopTimeEntry
}

// ScheduleStore is the query surface the planner consumes. Implementations
// return trips whose stop sequence contains at least one stop matching each
// predicate; stop times come back ordered by stop_sequence.
type ScheduleStore interface {
	TripsMatching(ctx context.Context, network string, origin, dest StopPredicate) ([]Trip, error)
	// TripByID fetches one trip. With matchRoute set the route identifier is
	// accepted in place of the trip identifier (intercity feeds label public
	// departures by route).
	TripByID(ctx context.Context, network, tripID string, matchRoute bool) (*Trip, error)
	Ping(ctx context.Context) error
}

// SearchMode selects which end of a leg the target time constrains.
type SearchMode string

const (
	DepartBy SearchMode = "depart_by"
	ArriveBy SearchMode = "arrive_by"
)

// Leg is an ephemeral derived value: one rider-visible movement between two
// stops of a single network. Clock strings are display-only; the minute
// fields are the comparable representation.
type Leg struct {
	TripID    string
	Network   string
	Departure string
	Arrival   string
	DepMins   int
	ArrMins   int
	Status    string
	Transfer  bool
}

// Itinerary pairs a primary leg with the connecting legs of the opposite
// network that the rider can reach through the shared terminal. A zero-length
// connection list is only valid for single-network results.
type Itinerary struct {
	Primary     Leg
	Connections []Leg
	LegType     string
}
