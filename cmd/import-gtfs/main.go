package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/railhub/planner/internal/db"
	"github.com/railhub/planner/internal/gtfs"
	"github.com/railhub/planner/internal/planner"
)

func main() {
	dbPath := flag.String("db", "./data/transit.db", "Path to SQLite database")
	gtfsDir := flag.String("gtfs-dir", "./data/gtfs", "Directory containing GTFS zip files")
	flag.Parse()

	database, err := db.Connect(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	entries, err := os.ReadDir(*gtfsDir)
	if err != nil {
		log.Fatalf("Failed to read GTFS directory: %v", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}

		zipPath := filepath.Join(*gtfsDir, entry.Name())
		network := deriveNetworkTag(entry.Name())

		log.Printf("Processing %s as network '%s'...", entry.Name(), network)

		if err := importGTFS(ctx, database, zipPath, network); err != nil {
			log.Printf("ERROR importing %s: %v", entry.Name(), err)
			continue
		}
		log.Printf("SUCCESS: %s imported", entry.Name())
		imported++
	}

	if imported == 0 {
		log.Fatalf("No GTFS zip files imported from %s", *gtfsDir)
	}
	log.Println("Import complete!")
}

// deriveNetworkTag extracts the network identifier from a feed filename.
func deriveNetworkTag(filename string) string {
	name := strings.ToLower(strings.TrimSuffix(filename, ".zip"))
	name = strings.TrimSuffix(name, "_gtfs")

	switch {
	case strings.Contains(name, "lirr") || strings.Contains(name, "google_transit"):
		return "lirr"
	case strings.Contains(name, "amtrak"):
		return "amtrak"
	default:
		return name
	}
}

func importGTFS(ctx context.Context, database *db.DB, zipPath, network string) error {
	data, err := gtfs.Parse(zipPath)
	if err != nil {
		return err
	}

	log.Printf("  Parsed: %d trips, %d stop_times", len(data.Trips), len(data.StopTimes))

	trips := assembleTrips(data)
	log.Printf("  Assembled %d trips with stop sequences", len(trips))

	importID, err := database.ReplaceSchedule(ctx, network, trips)
	if err != nil {
		return err
	}
	log.Printf("  Stored schedule (import %s)", importID)
	return nil
}

// assembleTrips nests each trip's stop times under the trip record, ordered
// by stop sequence, so the store never joins at query time. Trips with no
// stop times are dropped.
func assembleTrips(data *gtfs.Data) []planner.Trip {
	byTrip := make(map[string][]planner.StopTimeEntry, len(data.Trips))
	for _, st := range data.StopTimes {
		byTrip[st.TripID] = append(byTrip[st.TripID], planner.StopTimeEntry{
			StopID:        st.StopID,
			ArrivalTime:   st.ArrivalTime,
			DepartureTime: st.DepartureTime,
			StopSequence:  st.StopSequence,
		})
	}

	trips := make([]planner.Trip, 0, len(data.Trips))
	for _, t := range data.Trips {
		stopTimes, ok := byTrip[t.TripID]
		if !ok {
			continue
		}
		sort.Slice(stopTimes, func(i, j int) bool {
			return stopTimes[i].StopSequence < stopTimes[j].StopSequence
		})
		trips = append(trips, planner.Trip{
			TripID:    t.TripID,
			RouteID:   t.RouteID,
			StopTimes: stopTimes,
		})
	}
	return trips
}
