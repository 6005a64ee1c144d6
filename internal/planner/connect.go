package planner

// maxConnectionWindow hard-ceilings the layover at the shared terminal: no
// buffer setting can stretch a connection past three hours.
const maxConnectionWindow = 180

// ConnectionQuery fetches candidate legs of the opposite network departing the
// shared terminal, anchored at the given target time in minutes.
type ConnectionQuery func(targetMins int) ([]Leg, error)

// MatchConnections pairs each primary leg with the opposite-network legs a
// rider can reach through the terminal. A candidate connects when its
// departure falls inside [buffer, min(2*buffer, 180)] minutes after the
// primary leg's arrival: the lower bound makes the connection physically
// walkable, the upper bound caps the layover.
//
// Primary legs with no surviving candidate are dropped entirely; the matcher
// never emits an itinerary with an empty connection list. Which network plays
// the primary role is the caller's concern; the matching is symmetric.
func MatchConnections(primary []Leg, buffer int, legType string, query ConnectionQuery) ([]Itinerary, error) {
	maxWait := buffer * 2
	if maxWait > maxConnectionWindow {
		maxWait = maxConnectionWindow
	}

	var itineraries []Itinerary
	for _, leg := range primary {
		candidates, err := query(leg.ArrMins + buffer)
		if err != nil {
			return nil, err
		}

		var connections []Leg
		for _, cand := range candidates {
			wait := cand.DepMins - leg.ArrMins
			if wait >= buffer && wait <= maxWait {
				connections = append(connections, cand)
			}
		}
		if len(connections) == 0 {
			continue
		}

		itineraries = append(itineraries, Itinerary{
			Primary:     leg,
			Connections: connections,
			LegType:     legType,
		})
	}
	return itineraries, nil
}
