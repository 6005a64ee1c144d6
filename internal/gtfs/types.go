package gtfs

// Trip represents a row from trips.txt.
type Trip struct {
	RouteID      string
	ServiceID    string
	TripID       string
	TripHeadsign string
}

// StopTime represents a row from stop_times.txt.
type StopTime struct {
	TripID        string
	ArrivalTime   string
	DepartureTime string
	StopID        string
	StopSequence  int
}

// Stop represents a row from stops.txt.
type Stop struct {
	StopID   string
	StopCode string
	StopName string
}

// Data holds the parsed contents of one GTFS feed.
type Data struct {
	Trips     []Trip
	Stops     []Stop
	StopTimes []StopTime
}
