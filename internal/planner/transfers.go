package planner

import (
	"context"
	"sort"
	"sync"
)

// TransferMarker tags a synthesized transfer leg's identifier. Detail lookups
// strip it before querying the store.
const TransferMarker = " (Transfer)"

// FindWithTransfers returns direct legs plus one-hub transfer legs, ranked,
// deduplicated, and truncated per the network config.
//
// Each hub search is independent of the others, so hubs run concurrently;
// results land in per-hub slots and are concatenated in fixed hub order, which
// together with the stable sort keeps repeated runs byte-identical.
func (e *Engine) FindWithTransfers(ctx context.Context, originIDs, destIDs []string, targetMins int, mode SearchMode) ([]Leg, error) {
	legs, err := e.FindLegs(ctx, originIDs, destIDs, targetMins, mode)
	if err != nil {
		return nil, err
	}

	if len(e.cfg.Hubs) > 0 {
		hubLegs := make([][]Leg, len(e.cfg.Hubs))
		hubErrs := make([]error, len(e.cfg.Hubs))

		var wg sync.WaitGroup
		for i, hub := range e.cfg.Hubs {
			wg.Add(1)
			go func(slot int, hub string) {
				defer wg.Done()
				hubLegs[slot], hubErrs[slot] = e.composeViaHub(ctx, originIDs, destIDs, hub, targetMins, mode)
			}(i, hub)
		}
		wg.Wait()

		for i := range e.cfg.Hubs {
			if hubErrs[i] != nil {
				return nil, hubErrs[i]
			}
			legs = append(legs, hubLegs[i]...)
		}
	}

	e.rank(legs, mode)
	legs = e.dedup(legs)

	if e.cfg.MaxResults > 0 && len(legs) > e.cfg.MaxResults {
		legs = legs[:e.cfg.MaxResults]
	}
	return legs, nil
}

// composeViaHub splices origin->hub legs with hub->destination legs into
// synthetic transfer legs. The second search targets the first leg's arrival
// plus the minimum dwell, and pairs dwelling longer than the maximum are
// discarded.
func (e *Engine) composeViaHub(ctx context.Context, originIDs, destIDs []string, hub string, targetMins int, mode SearchMode) ([]Leg, error) {
	firstLegs, err := e.FindLegs(ctx, originIDs, []string{hub}, targetMins, mode)
	if err != nil {
		return nil, err
	}

	var composed []Leg
	for _, leg1 := range firstLegs {
		secondLegs, err := e.FindLegs(ctx, []string{hub}, destIDs, leg1.ArrMins+e.cfg.TransferMinDwell, DepartBy)
		if err != nil {
			return nil, err
		}
		for _, leg2 := range secondLegs {
			if leg2.DepMins-leg1.ArrMins > e.cfg.TransferMaxDwell {
				continue
			}
			composed = append(composed, Leg{
				TripID:    leg1.TripID + TransferMarker,
				Network:   e.cfg.Tag,
				Departure: leg1.Departure,
				Arrival:   leg2.Arrival,
				DepMins:   leg1.DepMins,
				ArrMins:   leg2.ArrMins,
				Status:    e.cfg.DefaultStatus,
				Transfer:  true,
			})
		}
	}
	return composed, nil
}

// rank orders candidates for the rider: in arrive_by mode the option closest
// to (but not after) the target departs latest, so latest departure wins;
// otherwise the configured key ascends.
func (e *Engine) rank(legs []Leg, mode SearchMode) {
	switch {
	case mode == ArriveBy:
		sort.SliceStable(legs, func(i, j int) bool { return legs[i].DepMins > legs[j].DepMins })
	case e.cfg.RankBy == "departure":
		sort.SliceStable(legs, func(i, j int) bool { return legs[i].DepMins < legs[j].DepMins })
	default:
		sort.SliceStable(legs, func(i, j int) bool { return legs[i].ArrMins < legs[j].ArrMins })
	}
}

// dedup keeps the first leg seen per key, preserving pre-dedup order. Keying
// by departure clock string collapses feed duplicates that record the same
// physical departure under different trip ids.
func (e *Engine) dedup(legs []Leg) []Leg {
	seen := make(map[string]bool, len(legs))
	unique := legs[:0:0]
	for _, leg := range legs {
		key := leg.Departure
		if e.cfg.DedupBy == "trip" {
			key = leg.TripID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, leg)
	}
	return unique
}
