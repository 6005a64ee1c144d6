package planner

import (
	"context"
	"testing"
)

func TestFindLegsDirect(t *testing.T) {
	// Trip T1: origin (seq 1, dep 08:00) -> hub (seq 2, arr 08:30) -> dest (seq 3, arr 09:00)
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "T1", StopTimes: []StopTimeEntry{
				call("10", 1, "07:58:00", "08:00:00"),
				call("102", 2, "08:30:00", "08:31:00"),
				call("20", 3, "09:00:00", "09:01:00"),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())
	ctx := context.Background()

	legs, err := eng.FindLegs(ctx, []string{"10"}, []string{"20"}, MinutesOrZero("07:55"), DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(legs))
	}
	if legs[0].Departure != "08:00" || legs[0].Arrival != "09:00" {
		t.Errorf("leg = %s -> %s, expected 08:00 -> 09:00", legs[0].Departure, legs[0].Arrival)
	}
	if legs[0].DepMins != 480 || legs[0].ArrMins != 540 {
		t.Errorf("leg minutes = %d/%d, expected 480/540", legs[0].DepMins, legs[0].ArrMins)
	}

	// Same query five minutes after departure matches nothing
	legs, err = eng.FindLegs(ctx, []string{"10"}, []string{"20"}, MinutesOrZero("08:05"), DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 0 {
		t.Fatalf("expected no legs for depart_by 08:05, got %d", len(legs))
	}
}

func TestFindLegsArriveBy(t *testing.T) {
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "EARLY", StopTimes: []StopTimeEntry{
				call("10", 1, "", "07:00:00"),
				call("20", 2, "07:45:00", ""),
			}},
			{TripID: "LATE", StopTimes: []StopTimeEntry{
				call("10", 1, "", "09:00:00"),
				call("20", 2, "09:45:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"10"}, []string{"20"}, MinutesOrZero("08:00"), ArriveBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if got := legIDs(legs); got != "EARLY" {
		t.Errorf("arrive_by legs = %q, expected EARLY only", got)
	}
}

func TestFindLegsDirectionality(t *testing.T) {
	// A trip visiting dest before origin must never be returned
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "WRONGWAY", StopTimes: []StopTimeEntry{
				call("20", 1, "06:00:00", "06:01:00"),
				call("10", 2, "06:30:00", "06:31:00"),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"10"}, []string{"20"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 0 {
		t.Fatalf("wrong-direction trip leaked through: %s", legIDs(legs))
	}
}

func TestFindLegsTurnaroundTrip(t *testing.T) {
	// The same stop id appears twice; the first occurrence by sequence is
	// the boarding stop, and the directionality check still holds.
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "TURN", StopTimes: []StopTimeEntry{
				call("10", 1, "", "08:00:00"),
				call("20", 2, "08:40:00", "08:41:00"),
				call("10", 3, "09:20:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"10"}, []string{"20"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg from turnaround trip, got %d", len(legs))
	}
	if legs[0].Departure != "08:00" || legs[0].Arrival != "08:40" {
		t.Errorf("leg = %s -> %s, expected 08:00 -> 08:40", legs[0].Departure, legs[0].Arrival)
	}

	// Reverse query: the first stop entry matching "10" is seq 1, which sits
	// below the origin's sequence, so the trip is skipped rather than ridden
	// around the turnaround.
	legs, err = eng.FindLegs(context.Background(), []string{"20"}, []string{"10"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 0 {
		t.Fatalf("expected reverse query to skip turnaround trip, got %d legs", len(legs))
	}
}

func TestFindLegsNoMatches(t *testing.T) {
	eng := NewEngine(&fakeStore{trips: map[string][]Trip{}}, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"10"}, []string{"20"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 0 {
		t.Fatalf("expected empty result, got %d legs", len(legs))
	}
}

func TestFindLegsPlatformSuffix(t *testing.T) {
	// Feed variant appends a track suffix to the base id
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "SFX", StopTimes: []StopTimeEntry{
				call("105-A", 1, "", "10:00:00"),
				call("20", 2, "10:40:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"105", "237"}, []string{"20"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected suffix id to match base candidate, got %d legs", len(legs))
	}
}

func TestFindLegsIntercityRouteLabel(t *testing.T) {
	// Intercity departures are labeled by route id (train number)
	store := &fakeStore{trips: map[string][]Trip{
		"amtrak": {
			{TripID: "trip-9941", RouteID: "2153", StopTimes: []StopTimeEntry{
				call("NYP", 1, "", "09:35:00"),
				call("WAS", 2, "12:55:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testIntercityConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"NYP"}, []string{"WAS"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(legs))
	}
	if legs[0].TripID != "2153" {
		t.Errorf("leg id = %q, expected route label 2153", legs[0].TripID)
	}
	if legs[0].Status != "Scheduled" {
		t.Errorf("leg status = %q, expected Scheduled", legs[0].Status)
	}
}

func TestFindLegsMalformedTimes(t *testing.T) {
	// Permissive parse: malformed times become minute 0, the leg survives
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "BAD", StopTimes: []StopTimeEntry{
				call("10", 1, "", "bogus"),
				call("20", 2, "also bogus", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindLegs(context.Background(), []string{"10"}, []string{"20"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected malformed-time leg to survive with minute 0, got %d legs", len(legs))
	}
	if legs[0].DepMins != 0 || legs[0].ArrMins != 0 {
		t.Errorf("leg minutes = %d/%d, expected 0/0", legs[0].DepMins, legs[0].ArrMins)
	}
}
