package planner

import (
	"context"
	"strings"
)

// fakeStore is an in-memory ScheduleStore for engine tests. It evaluates
// predicates exactly the way the SQL stores do, via the in-memory Matches.
type fakeStore struct {
	trips map[string][]Trip
	err   error
}

func (f *fakeStore) TripsMatching(_ context.Context, network string, origin, dest StopPredicate) ([]Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Trip
	for _, trip := range f.trips[network] {
		if _, ok := firstMatchingStop(trip.StopTimes, origin); !ok {
			continue
		}
		if _, ok := firstMatchingStop(trip.StopTimes, dest); !ok {
			continue
		}
		out = append(out, trip)
	}
	return out, nil
}

func (f *fakeStore) TripByID(_ context.Context, network, tripID string, matchRoute bool) (*Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, trip := range f.trips[network] {
		if trip.TripID == tripID || (matchRoute && trip.RouteID == tripID) {
			t := trip
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.err
}

// call builds a stop-time entry from "stopID seq dep arr" style arguments.
func call(stopID string, seq int, arrival, departure string) StopTimeEntry {
	return StopTimeEntry{
		StopID:        stopID,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		StopSequence:  seq,
	}
}

func testCommuterConfig() *NetworkConfig {
	return &NetworkConfig{
		Tag:  "lirr",
		Role: "commuter",
		Aliases: map[string][]string{
			"NYP": {"105", "237"},
		},
		Hubs:             []string{"102", "54", "56"},
		TransferMinDwell: 3,
		TransferMaxDwell: 60,
		MaxResults:       20,
		DedupBy:          "departure",
		RankBy:           "arrival",
	}
}

func testIntercityConfig() *NetworkConfig {
	return &NetworkConfig{
		Tag:           "amtrak",
		Role:          "intercity",
		StationCodes:  []string{"WAS", "PHL", "BOS"},
		DedupBy:       "trip",
		RankBy:        "departure",
		LookupByRoute: true,
		DefaultStatus: "Scheduled",
	}
}

func legIDs(legs []Leg) string {
	ids := make([]string, 0, len(legs))
	for _, l := range legs {
		ids = append(ids, l.TripID)
	}
	return strings.Join(ids, ",")
}
