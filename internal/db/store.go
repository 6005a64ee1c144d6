package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/railhub/planner/internal/planner"
)

// ScheduleStore answers the planner's trip queries from SQLite.
type ScheduleStore struct {
	db *DB
}

// NewScheduleStore creates a store over an open connection.
func NewScheduleStore(db *DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// Ping verifies store connectivity.
func (s *ScheduleStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// compilePredicate renders a stop predicate as a SQL OR-group over the given
// column. Stop ids are normalized to trimmed text at ingestion, so the
// exact-integer representation compiles to equality on its decimal form; the
// prefix representation compiles to LIKE with a trailing wildcard.
func compilePredicate(pred planner.StopPredicate, column string) (string, []any) {
	matchers := pred.Matchers()
	conds := make([]string, 0, len(matchers))
	args := make([]any, 0, len(matchers))
	for _, m := range matchers {
		switch m.Kind {
		case planner.PrefixPattern:
			conds = append(conds, column+` LIKE ? ESCAPE '\'`)
			args = append(args, likePrefix(m.Value))
		default:
			conds = append(conds, column+" = ?")
			args = append(args, m.Value)
		}
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// likePrefix escapes LIKE metacharacters in a literal prefix. Stop ids rarely
// contain them, but an underscore in an id must not act as a wildcard.
func likePrefix(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "%", `\%`)
	v = strings.ReplaceAll(v, "_", `\_`)
	return v + "%"
}

// TripsMatching returns the trips of one network whose stop sequence contains
// at least one stop matching each predicate, with stop times ordered by
// sequence. Results are ordered by trip id so identical queries return
// identical slices.
func (s *ScheduleStore) TripsMatching(ctx context.Context, network string, origin, dest planner.StopPredicate) ([]planner.Trip, error) {
	if origin.Empty() || dest.Empty() {
		return nil, nil
	}

	originCond, originArgs := compilePredicate(origin, "o.stop_id")
	destCond, destArgs := compilePredicate(dest, "d.stop_id")

	query := fmt.Sprintf(`
		SELECT t.trip_id, COALESCE(t.route_id, '')
		FROM gtfs_trips t
		WHERE t.network = ?
		  AND EXISTS (
			SELECT 1 FROM gtfs_stop_times o
			WHERE o.network = t.network AND o.trip_id = t.trip_id AND %s
		  )
		  AND EXISTS (
			SELECT 1 FROM gtfs_stop_times d
			WHERE d.network = t.network AND d.trip_id = t.trip_id AND %s
		  )
		ORDER BY t.trip_id
	`, originCond, destCond)

	args := make([]any, 0, 1+len(originArgs)+len(destArgs))
	args = append(args, network)
	args = append(args, originArgs...)
	args = append(args, destArgs...)

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []planner.Trip
	var tripIDs []string
	for rows.Next() {
		var t planner.Trip
		if err := rows.Scan(&t.TripID, &t.RouteID); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, t)
		tripIDs = append(tripIDs, t.TripID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	if len(trips) == 0 {
		return nil, nil
	}

	stopTimes, err := s.loadStopTimes(ctx, network, tripIDs)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		trips[i].StopTimes = stopTimes[trips[i].TripID]
	}
	return trips, nil
}

// TripByID fetches one trip with its ordered stop calls, or nil when the
// identifier is unknown. With matchRoute set, the route id is accepted in
// place of the trip id.
func (s *ScheduleStore) TripByID(ctx context.Context, network, tripID string, matchRoute bool) (*planner.Trip, error) {
	query := `
		SELECT trip_id, COALESCE(route_id, '')
		FROM gtfs_trips
		WHERE network = ? AND trip_id = ?
		LIMIT 1
	`
	args := []any{network, tripID}
	if matchRoute {
		query = `
			SELECT trip_id, COALESCE(route_id, '')
			FROM gtfs_trips
			WHERE network = ? AND (trip_id = ? OR route_id = ?)
			ORDER BY trip_id
			LIMIT 1
		`
		args = append(args, tripID)
	}

	var trip planner.Trip
	err := s.db.conn.QueryRowContext(ctx, query, args...).Scan(&trip.TripID, &trip.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trip: %w", err)
	}

	stopTimes, err := s.loadStopTimes(ctx, network, []string{trip.TripID})
	if err != nil {
		return nil, err
	}
	trip.StopTimes = stopTimes[trip.TripID]
	return &trip, nil
}

func (s *ScheduleStore) loadStopTimes(ctx context.Context, network string, tripIDs []string) (map[string][]planner.StopTimeEntry, error) {
	placeholders := strings.Repeat("?,", len(tripIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT trip_id, stop_id, arrival_time, departure_time, stop_sequence
		FROM gtfs_stop_times
		WHERE network = ? AND trip_id IN (%s)
		ORDER BY trip_id, stop_sequence
	`, placeholders)

	args := make([]any, 0, 1+len(tripIDs))
	args = append(args, network)
	for _, id := range tripIDs {
		args = append(args, id)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stop times: %w", err)
	}
	defer rows.Close()

	stopTimes := make(map[string][]planner.StopTimeEntry, len(tripIDs))
	for rows.Next() {
		var tripID string
		var st planner.StopTimeEntry
		if err := rows.Scan(&tripID, &st.StopID, &st.ArrivalTime, &st.DepartureTime, &st.StopSequence); err != nil {
			return nil, fmt.Errorf("failed to scan stop time row: %w", err)
		}
		stopTimes[tripID] = append(stopTimes[tripID], st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stop time rows: %w", err)
	}
	return stopTimes, nil
}
