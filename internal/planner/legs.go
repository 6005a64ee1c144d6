package planner

import (
	"context"
	"fmt"
)

// Engine answers schedule queries for one network. It holds no mutable state:
// the store is read-only and the config is constant, so a single Engine is
// safe for concurrent requests.
type Engine struct {
	store ScheduleStore
	cfg   *NetworkConfig
}

// NewEngine builds the planning engine for one network.
func NewEngine(store ScheduleStore, cfg *NetworkConfig) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// Network returns the engine's network tag.
func (e *Engine) Network() string {
	return e.cfg.Tag
}

// Resolve maps a station code through the network's alias table.
func (e *Engine) Resolve(code string) []string {
	return e.cfg.Resolve(code)
}

// FindLegs returns the single-seat legs between any origin candidate and any
// destination candidate that satisfy the time constraint.
//
// Per retrieved trip: the first stop entry (by sequence) whose id
// prefix-matches an origin candidate is the boarding stop, the first matching
// a destination candidate is the alighting stop. A trip missing either, or
// visiting them out of order, is skipped; the sequence check is what keeps a
// trip traveled in the wrong direction out of the results.
func (e *Engine) FindLegs(ctx context.Context, originIDs, destIDs []string, targetMins int, mode SearchMode) ([]Leg, error) {
	originPred := NewStopPredicate(originIDs)
	destPred := NewStopPredicate(destIDs)
	if originPred.Empty() || destPred.Empty() {
		return nil, nil
	}

	trips, err := e.store.TripsMatching(ctx, e.cfg.Tag, originPred, destPred)
	if err != nil {
		return nil, fmt.Errorf("schedule lookup for %s: %w", e.cfg.Tag, err)
	}

	var legs []Leg
	for _, trip := range trips {
		origin, ok := firstMatchingStop(trip.StopTimes, originPred)
		if !ok {
			continue
		}
		dest, ok := firstMatchingStop(trip.StopTimes, destPred)
		if !ok {
			continue
		}
		if origin.StopSequence >= dest.StopSequence {
			continue
		}

		leg := Leg{
			TripID:    legID(trip, e.cfg),
			Network:   e.cfg.Tag,
			Departure: TruncateClock(origin.DepartureTime),
			Arrival:   TruncateClock(dest.ArrivalTime),
			Status:    e.cfg.DefaultStatus,
		}
		leg.DepMins = MinutesOrZero(leg.Departure)
		leg.ArrMins = MinutesOrZero(leg.Arrival)

		switch mode {
		case ArriveBy:
			if leg.ArrMins <= targetMins {
				legs = append(legs, leg)
			}
		default:
			if leg.DepMins >= targetMins {
				legs = append(legs, leg)
			}
		}
	}

	return legs, nil
}

// firstMatchingStop scans the ordered stop list for the earliest entry the
// predicate accepts. Stop times arrive ordered by sequence from the store, so
// a linear scan finds the lowest-sequence match.
func firstMatchingStop(stops []StopTimeEntry, pred StopPredicate) (StopTimeEntry, bool) {
	for _, st := range stops {
		if pred.Matches(st.StopID) {
			return st, true
		}
	}
	return StopTimeEntry{}, false
}

func legID(trip Trip, cfg *NetworkConfig) string {
	// Intercity departures are labeled by route (train number); fall back to
	// the trip id when the feed omits one.
	if cfg.LookupByRoute && trip.RouteID != "" {
		return trip.RouteID
	}
	if trip.TripID == "" {
		return "Unknown"
	}
	return trip.TripID
}
