package planner

import (
	"context"
	"errors"
	"log"
)

// LiveDeparture is one entry of the external live departure feed for the
// shared terminal.
type LiveDeparture struct {
	TripID       string `json:"trip_id"`
	RouteID      string `json:"route_id"`
	Departure    string `json:"departure"`
	DelaySeconds int    `json:"delay_seconds"`
	Status       string `json:"status"`
}

// LiveFeed is the consumption contract for the external live departure feed.
// Implementations apply their own bounded timeout and return an error for any
// failure (non-success status, timeout, malformed payload).
type LiveFeed interface {
	TerminalDepartures(ctx context.Context) ([]LiveDeparture, error)
}

// ErrUpstreamUnavailable signals that the live departure feed was required
// and could not be reached. Distinct from a valid empty result.
var ErrUpstreamUnavailable = errors.New("live departure feed unavailable")

// PlanRequest is a fully parsed, validated planning query.
type PlanRequest struct {
	Origin      string
	Destination string
	Mode        SearchMode
	TargetMins  int
	Buffer      int
}

// Service plans combined itineraries across the two networks. It owns one
// engine per network plus the optional live feed; everything it touches is
// read-only, so a single Service serves all requests.
type Service struct {
	topo      *Topology
	commuter  *Engine
	intercity *Engine
	live      LiveFeed
}

// NewService wires a planning service over the given store and topology.
// live may be nil; statuses then stay at each network's default.
func NewService(store ScheduleStore, topo *Topology, live LiveFeed) *Service {
	return &Service{
		topo:      topo,
		commuter:  NewEngine(store, topo.Commuter()),
		intercity: NewEngine(store, topo.Intercity()),
		live:      live,
	}
}

// Store ping, used by the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	return s.commuter.store.Ping(ctx)
}

// Plan produces the ordered itinerary list for one request.
//
// The network owning the origin plays the primary role. When origin and
// destination belong to the same network the result is that network's legs
// with no connections; otherwise each primary leg is matched against
// opposite-network legs departing the shared terminal.
func (s *Service) Plan(ctx context.Context, req PlanRequest) ([]Itinerary, error) {
	ic := s.topo.Intercity()
	originIntercity := ic.HasStation(req.Origin)
	destIntercity := ic.HasStation(req.Destination)

	switch {
	case originIntercity && destIntercity:
		return s.planSingle(ctx, s.intercity, req)
	case originIntercity:
		return s.planIntercityFirst(ctx, req)
	case destIntercity:
		return s.planCommuterFirst(ctx, req)
	default:
		return s.planSingle(ctx, s.commuter, req)
	}
}

// planSingle handles origin and destination on the same network: the legs
// themselves are the itineraries.
func (s *Service) planSingle(ctx context.Context, eng *Engine, req PlanRequest) ([]Itinerary, error) {
	legs, err := eng.FindWithTransfers(ctx,
		eng.Resolve(req.Origin), eng.Resolve(req.Destination), req.TargetMins, req.Mode)
	if err != nil {
		return nil, err
	}
	if eng == s.intercity {
		s.applyLiveStatus(ctx, legs)
	}

	itineraries := make([]Itinerary, 0, len(legs))
	for _, leg := range legs {
		itineraries = append(itineraries, Itinerary{
			Primary: leg,
			LegType: eng.Network() + "_direct",
		})
	}
	return itineraries, nil
}

func (s *Service) planIntercityFirst(ctx context.Context, req PlanRequest) ([]Itinerary, error) {
	terminal := s.topo.Terminal
	primary, err := s.intercity.FindWithTransfers(ctx,
		s.intercity.Resolve(req.Origin), s.intercity.Resolve(terminal), req.TargetMins, req.Mode)
	if err != nil {
		return nil, err
	}
	s.applyLiveStatus(ctx, primary)

	return MatchConnections(primary, req.Buffer, s.intercity.Network()+"_first", func(targetMins int) ([]Leg, error) {
		return s.commuter.FindWithTransfers(ctx,
			s.commuter.Resolve(terminal), s.commuter.Resolve(req.Destination), targetMins, DepartBy)
	})
}

func (s *Service) planCommuterFirst(ctx context.Context, req PlanRequest) ([]Itinerary, error) {
	terminal := s.topo.Terminal
	primary, err := s.commuter.FindWithTransfers(ctx,
		s.commuter.Resolve(req.Origin), s.commuter.Resolve(terminal), req.TargetMins, req.Mode)
	if err != nil {
		return nil, err
	}

	itineraries, err := MatchConnections(primary, req.Buffer, s.commuter.Network()+"_first", func(targetMins int) ([]Leg, error) {
		return s.intercity.FindWithTransfers(ctx,
			s.intercity.Resolve(terminal), s.intercity.Resolve(req.Destination), targetMins, DepartBy)
	})
	if err != nil {
		return nil, err
	}
	for i := range itineraries {
		s.applyLiveStatus(ctx, itineraries[i].Connections)
	}
	return itineraries, nil
}

// TripDetails routes a detail lookup to the engine owning the network tag.
func (s *Service) TripDetails(ctx context.Context, tripID, network, originCode, destCode string) ([]StopTimeEntry, error) {
	eng := s.commuter
	if network == s.intercity.Network() {
		eng = s.intercity
	}
	return eng.TripDetails(ctx, tripID, originCode, destCode)
}

// TerminalDepartures serves the live departure board. Here the feed is the
// only data source, so its absence surfaces as ErrUpstreamUnavailable rather
// than an empty board.
func (s *Service) TerminalDepartures(ctx context.Context) ([]LiveDeparture, error) {
	if s.live == nil {
		return nil, ErrUpstreamUnavailable
	}
	departures, err := s.live.TerminalDepartures(ctx)
	if err != nil {
		log.Printf("live departure feed failed: %v", err)
		return nil, ErrUpstreamUnavailable
	}
	return departures, nil
}

// applyLiveStatus overlays realtime status onto intercity legs. Feed failure
// is no data, not a request failure: statuses simply keep their default.
func (s *Service) applyLiveStatus(ctx context.Context, legs []Leg) {
	if s.live == nil || len(legs) == 0 {
		return
	}
	departures, err := s.live.TerminalDepartures(ctx)
	if err != nil {
		log.Printf("live departure feed failed (keeping scheduled statuses): %v", err)
		return
	}

	byID := make(map[string]string, len(departures))
	for _, d := range departures {
		if d.TripID != "" {
			byID[d.TripID] = d.Status
		}
		if d.RouteID != "" {
			byID[d.RouteID] = d.Status
		}
	}
	for i := range legs {
		if status, ok := byID[legs[i].TripID]; ok && status != "" {
			legs[i].Status = status
		}
	}
}
