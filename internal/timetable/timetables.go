package timetable

import (
	"transpors.dev/internal/schedule"
)

// Stop is a configured stop together with its precomputed schedule.
type Stop struct {
	ID       string
	Name     string
	Database *schedule.Database
}

// Departure groups the departures found for one stop.
type Departure struct {
	Stop       *Stop
	Departures []*schedule.Record
}

// Timetables answers departure queries for every configured stop.
type Timetables struct {
	stops []Stop
	order schedule.Order
}

// New returns Timetables over stops, keeping their order.
func New(stops []Stop, order schedule.Order) *Timetables {
	return &Timetables{stops: stops, order: order}
}

// Stops returns the configured stops.
func (t *Timetables) Stops() []Stop {
	return t.stops
}

// Stop returns the configured stop with the given id.
func (t *Timetables) Stop(id string) (*Stop, bool) {
	for i := range t.stops {
		if t.stops[i].ID == id {
			return &t.stops[i], true
		}
	}
	return nil, false
}

// Departures runs the departure query for every stop.
func (t *Timetables) Departures(q schedule.Query) []Departure {
	departures := make([]Departure, 0, len(t.stops))
	for i := range t.stops {
		departures = append(departures, t.DeparturesFor(&t.stops[i], q))
	}
	return departures
}

// DeparturesFor runs the departure query for a single stop.
func (t *Timetables) DeparturesFor(stop *Stop, q schedule.Query) Departure {
	return Departure{
		Stop:       stop,
		Departures: schedule.NextDepartures(stop.Database, q, t.order),
	}
}
