package planner

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func TestFindWithTransfersDwellWindow(t *testing.T) {
	// First leg arrives at hub 102 at 08:20 (minute 500). Three onward
	// departures from the hub: 08:21 (dwell 1, under the 3-minute minimum),
	// 08:25 (dwell 5, valid), 09:25 (dwell 65, over the 60-minute cap).
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "LEG1", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:00:00"),
				call("102", 2, "08:20:00", ""),
			}},
			{TripID: "TOOSOON", StopTimes: []StopTimeEntry{
				call("102", 1, "", "08:21:00"),
				call("214", 2, "08:50:00", ""),
			}},
			{TripID: "GOOD", StopTimes: []StopTimeEntry{
				call("102", 1, "", "08:25:00"),
				call("214", 2, "09:00:00", ""),
			}},
			{TripID: "TOOLATE", StopTimes: []StopTimeEntry{
				call("102", 1, "", "09:25:00"),
				call("214", 2, "10:00:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindWithTransfers failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected exactly one composed leg, got %d (%s)", len(legs), legIDs(legs))
	}
	got := legs[0]
	if got.TripID != "LEG1"+TransferMarker {
		t.Errorf("composed id = %q", got.TripID)
	}
	if !got.Transfer {
		t.Error("composed leg not flagged as transfer")
	}
	if got.Departure != "08:00" || got.Arrival != "09:00" {
		t.Errorf("composed leg = %s -> %s, expected 08:00 -> 09:00", got.Departure, got.Arrival)
	}
}

func TestFindWithTransfersDwellBoundary(t *testing.T) {
	// Dwell of exactly 60 minutes is still a legal transfer.
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "LEG1", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:00:00"),
				call("102", 2, "08:20:00", ""),
			}},
			{TripID: "ONHOUR", StopTimes: []StopTimeEntry{
				call("102", 1, "", "09:20:00"),
				call("214", 2, "09:55:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindWithTransfers failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("expected 60-minute dwell to be kept, got %d legs", len(legs))
	}
}

func TestFindWithTransfersRankAndDedup(t *testing.T) {
	// Two feed duplicates of the same 08:00 departure plus a later trip.
	// Ranking by arrival puts the duplicates first; dedup by departure clock
	// then collapses them to one entry.
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "DUP-A", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:00:00"),
				call("214", 2, "08:45:00", ""),
			}},
			{TripID: "DUP-B", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:00:00"),
				call("214", 2, "08:45:00", ""),
			}},
			{TripID: "LATER", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:30:00"),
				call("214", 2, "09:15:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	legs, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindWithTransfers failed: %v", err)
	}
	if got := legIDs(legs); got != "DUP-A,LATER" {
		t.Errorf("ranked+deduped legs = %q, expected DUP-A,LATER", got)
	}
}

func TestFindWithTransfersMaxResults(t *testing.T) {
	trips := make([]Trip, 0, 5)
	for i := 0; i < 5; i++ {
		trips = append(trips, Trip{
			TripID: fmt.Sprintf("T%d", i),
			StopTimes: []StopTimeEntry{
				call("211", 1, "", fmt.Sprintf("08:%02d:00", i*10)),
				call("214", 2, fmt.Sprintf("09:%02d:00", i*10), ""),
			},
		})
	}
	store := &fakeStore{trips: map[string][]Trip{"lirr": trips}}

	cfg := testCommuterConfig()
	cfg.MaxResults = 2
	eng := NewEngine(store, cfg)

	legs, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindWithTransfers failed: %v", err)
	}
	if got := legIDs(legs); got != "T0,T1" {
		t.Errorf("truncated legs = %q, expected T0,T1", got)
	}
}

func TestFindWithTransfersIdempotent(t *testing.T) {
	// The hub searches run concurrently but the assembled output must be
	// identical from run to run.
	store := &fakeStore{trips: map[string][]Trip{
		"lirr": {
			{TripID: "D1", StopTimes: []StopTimeEntry{
				call("211", 1, "", "07:30:00"),
				call("214", 2, "08:40:00", ""),
			}},
			{TripID: "A1", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:00:00"),
				call("102", 2, "08:20:00", ""),
			}},
			{TripID: "A2", StopTimes: []StopTimeEntry{
				call("102", 1, "", "08:25:00"),
				call("214", 2, "09:00:00", ""),
			}},
			{TripID: "B1", StopTimes: []StopTimeEntry{
				call("211", 1, "", "08:05:00"),
				call("54", 2, "08:35:00", ""),
			}},
			{TripID: "B2", StopTimes: []StopTimeEntry{
				call("54", 1, "", "08:45:00"),
				call("214", 2, "09:30:00", ""),
			}},
		},
	}}
	eng := NewEngine(store, testCommuterConfig())

	first, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
	if err != nil {
		t.Fatalf("FindWithTransfers failed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected direct + two transfer options, got %d (%s)", len(first), legIDs(first))
	}
	for i := 0; i < 10; i++ {
		again, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy)
		if err != nil {
			t.Fatalf("repeat run failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged:\n first: %v\n again: %v", i, first, again)
		}
	}
}

func TestFindWithTransfersStoreError(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection reset")}
	eng := NewEngine(store, testCommuterConfig())

	if _, err := eng.FindWithTransfers(context.Background(), []string{"211"}, []string{"214"}, 0, DepartBy); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
