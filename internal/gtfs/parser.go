package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// Parse reads a GTFS zip file and returns the tables the schedule store
// consumes: trips, stops, and stop_times.
func Parse(zipPath string) (*Data, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	data := &Data{}

	files := make(map[string]*zip.File)
	for _, f := range r.File {
		files[f.Name] = f
	}

	if f, ok := files["trips.txt"]; ok {
		trips, err := parseTrips(f)
		if err != nil {
			log.Printf("Warning: failed to parse trips.txt: %v", err)
		} else {
			data.Trips = trips
		}
	}

	if f, ok := files["stops.txt"]; ok {
		stops, err := parseStops(f)
		if err != nil {
			log.Printf("Warning: failed to parse stops.txt: %v", err)
		} else {
			data.Stops = stops
		}
	}

	if f, ok := files["stop_times.txt"]; ok {
		stopTimes, err := parseStopTimes(f)
		if err != nil {
			log.Printf("Warning: failed to parse stop_times.txt: %v", err)
		} else {
			data.StopTimes = stopTimes
		}
	}

	log.Printf("GTFS parsed: %d trips, %d stops, %d stop_times",
		len(data.Trips), len(data.Stops), len(data.StopTimes))

	return data, nil
}

func parseTrips(f *zip.File) ([]Trip, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idx := makeIndex(header)
	var trips []Trip

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		trips = append(trips, Trip{
			RouteID:      getField(record, idx, "route_id"),
			ServiceID:    getField(record, idx, "service_id"),
			TripID:       getField(record, idx, "trip_id"),
			TripHeadsign: getField(record, idx, "trip_headsign"),
		})
	}

	return trips, nil
}

func parseStops(f *zip.File) ([]Stop, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idx := makeIndex(header)
	var stops []Stop

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		stops = append(stops, Stop{
			StopID:   NormalizeStopID(getField(record, idx, "stop_id")),
			StopCode: getField(record, idx, "stop_code"),
			StopName: getField(record, idx, "stop_name"),
		})
	}

	return stops, nil
}

func parseStopTimes(f *zip.File) ([]StopTime, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idx := makeIndex(header)
	var stopTimes []StopTime

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		seq, _ := strconv.Atoi(getField(record, idx, "stop_sequence"))

		stopTimes = append(stopTimes, StopTime{
			TripID:        getField(record, idx, "trip_id"),
			ArrivalTime:   getField(record, idx, "arrival_time"),
			DepartureTime: getField(record, idx, "departure_time"),
			StopID:        NormalizeStopID(getField(record, idx, "stop_id")),
			StopSequence:  seq,
		})
	}

	return stopTimes, nil
}

// NormalizeStopID settles every stop identifier on one canonical text form at
// ingestion time, so query-time matching never has to juggle representations.
// Trims whitespace and collapses float-formatted numeric ids ("105.0") to
// their integer form.
func NormalizeStopID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasSuffix(id, ".0") {
		if n, err := strconv.Atoi(strings.TrimSuffix(id, ".0")); err == nil {
			return strconv.Itoa(n)
		}
	}
	return id
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
