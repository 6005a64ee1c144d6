package planner

import (
	"context"
	"strings"
)

// TripDetails returns the ordered stop calls for one trip, trimmed to the
// origin->destination window when both codes are supplied.
//
// Endpoint matching is a case-insensitive prefix match on stop ids. When the
// origin's index falls after the destination's, the window is returned
// reversed: a transfer leg's second segment is looked up against the full
// trip of its second train, where the physical boarding stop can appear
// later in the sequence. A missing endpoint falls back to the full stop list.
func (e *Engine) TripDetails(ctx context.Context, tripID, originCode, destCode string) ([]StopTimeEntry, error) {
	id := strings.ReplaceAll(tripID, TransferMarker, "")

	trip, err := e.store.TripByID(ctx, e.cfg.Tag, id, e.cfg.LookupByRoute)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return []StopTimeEntry{}, nil
	}

	stops := trip.StopTimes
	if originCode == "" || destCode == "" {
		return stops, nil
	}

	oi := firstPrefixIndex(stops, e.Resolve(originCode))
	di := firstPrefixIndex(stops, e.Resolve(destCode))
	if oi < 0 || di < 0 {
		return stops, nil
	}

	if oi > di {
		window := make([]StopTimeEntry, 0, oi-di+1)
		for i := oi; i >= di; i-- {
			window = append(window, stops[i])
		}
		return window, nil
	}
	return stops[oi : di+1], nil
}

func firstPrefixIndex(stops []StopTimeEntry, candidates []string) int {
	for i, st := range stops {
		id := strings.ToLower(st.StopID)
		for _, c := range candidates {
			if strings.HasPrefix(id, strings.ToLower(c)) {
				return i
			}
		}
	}
	return -1
}
