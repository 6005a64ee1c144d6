package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/railhub/planner/internal/planner"
)

// ReplaceSchedule swaps out one network's schedule in a single transaction:
// existing rows are dropped, the new trips and their ordered stop calls are
// inserted, and the run is recorded in import_runs. Returns the import id.
func (db *DB) ReplaceSchedule(ctx context.Context, network string, trips []planner.Trip) (string, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM gtfs_stop_times WHERE network = ?", network); err != nil {
		return "", fmt.Errorf("failed to clear stop times: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM gtfs_trips WHERE network = ?", network); err != nil {
		return "", fmt.Errorf("failed to clear trips: %w", err)
	}

	tripStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gtfs_trips (network, trip_id, route_id)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare trip statement: %w", err)
	}
	defer tripStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gtfs_stop_times (network, trip_id, stop_id, arrival_time, departure_time, stop_sequence)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare stop time statement: %w", err)
	}
	defer stopStmt.Close()

	stopTimeCount := 0
	for _, trip := range trips {
		if _, err := tripStmt.ExecContext(ctx, network, trip.TripID, trip.RouteID); err != nil {
			return "", fmt.Errorf("failed to insert trip %s: %w", trip.TripID, err)
		}
		for _, st := range trip.StopTimes {
			if _, err := stopStmt.ExecContext(ctx, network, trip.TripID, st.StopID, st.ArrivalTime, st.DepartureTime, st.StopSequence); err != nil {
				return "", fmt.Errorf("failed to insert stop time for trip %s: %w", trip.TripID, err)
			}
			stopTimeCount++
		}
	}

	importID := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_runs (import_id, network, imported_at_utc, trip_count, stop_time_count)
		VALUES (?, ?, ?, ?, ?)
	`, importID, network, time.Now().UTC().Format(time.RFC3339), len(trips), stopTimeCount)
	if err != nil {
		return "", fmt.Errorf("failed to record import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}
	return importID, nil
}
