package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/railhub/planner/internal/planner"
)

// PostgresScheduleStore answers the planner's trip queries from Postgres,
// against the same schema the SQLite importer creates. Selected with
// DATABASE_URL for deployments where several API replicas share one store.
type PostgresScheduleStore struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleStore creates a pooled store handle.
func NewPostgresScheduleStore(databaseURL string) (*PostgresScheduleStore, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresScheduleStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresScheduleStore) Close() {
	s.pool.Close()
}

// Ping verifies store connectivity.
func (s *PostgresScheduleStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// compilePredicatePG renders a stop predicate with numbered placeholders,
// starting at argIndex. Returns the SQL group, the arguments, and the next
// free placeholder index.
func compilePredicatePG(pred planner.StopPredicate, column string, argIndex int) (string, []any, int) {
	matchers := pred.Matchers()
	conds := make([]string, 0, len(matchers))
	args := make([]any, 0, len(matchers))
	for _, m := range matchers {
		switch m.Kind {
		case planner.PrefixPattern:
			conds = append(conds, fmt.Sprintf(`%s LIKE $%d ESCAPE '\'`, column, argIndex))
			args = append(args, likePrefix(m.Value))
		default:
			conds = append(conds, fmt.Sprintf("%s = $%d", column, argIndex))
			args = append(args, m.Value)
		}
		argIndex++
	}
	return "(" + strings.Join(conds, " OR ") + ")", args, argIndex
}

// TripsMatching mirrors the SQLite implementation.
func (s *PostgresScheduleStore) TripsMatching(ctx context.Context, network string, origin, dest planner.StopPredicate) ([]planner.Trip, error) {
	if origin.Empty() || dest.Empty() {
		return nil, nil
	}

	originCond, originArgs, next := compilePredicatePG(origin, "o.stop_id", 2)
	destCond, destArgs, _ := compilePredicatePG(dest, "d.stop_id", next)

	query := fmt.Sprintf(`
		SELECT t.trip_id, COALESCE(t.route_id, '')
		FROM gtfs_trips t
		WHERE t.network = $1
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

	rows, err := s.pool.Query(ctx, query, args...)
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

// TripByID mirrors the SQLite implementation.
func (s *PostgresScheduleStore) TripByID(ctx context.Context, network, tripID string, matchRoute bool) (*planner.Trip, error) {
	query := `
		SELECT trip_id, COALESCE(route_id, '')
		FROM gtfs_trips
		WHERE network = $1 AND trip_id = $2
		LIMIT 1
	`
	args := []any{network, tripID}
	if matchRoute {
		query = `
			SELECT trip_id, COALESCE(route_id, '')
			FROM gtfs_trips
			WHERE network = $1 AND (trip_id = $2 OR route_id = $3)
			ORDER BY trip_id
			LIMIT 1
		`
		args = append(args, tripID)
	}

	var trip planner.Trip
	err := s.pool.QueryRow(ctx, query, args...).Scan(&trip.TripID, &trip.RouteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresScheduleStore) loadStopTimes(ctx context.Context, network string, tripIDs []string) (map[string][]planner.StopTimeEntry, error) {
	query := `
		SELECT trip_id, stop_id, arrival_time, departure_time, stop_sequence
		FROM gtfs_stop_times
		WHERE network = $1 AND trip_id = ANY($2)
		ORDER BY trip_id, stop_sequence
	`

	rows, err := s.pool.Query(ctx, query, network, tripIDs)
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
