package schedule

import (
	"errors"
	"fmt"
)

// ErrMissingCalendar is returned when a trip references a service id that has
// no calendar entry in the feed.
var ErrMissingCalendar = errors.New("no calendar for service")

// Feed is the already parsed view of a static GTFS feed that schedules are
// built from. Slices keep the order of the source files.
type Feed struct {
	Routes    []Route
	Trips     []Trip
	Calendars map[string]ServiceCalendar
}

// Route corresponds to a row in routes.txt.
type Route struct {
	ID        string
	ShortName string
}

// Trip corresponds to a row in trips.txt together with its stop times ordered
// by stop_sequence.
type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	StopTimes []StopTime
}

// StopTime is a single visit of a trip to a stop.
type StopTime struct {
	Stop Stop
	// ArrivalTime is in seconds since midnight, nil when the feed has none.
	ArrivalTime *int
}

// Stop identifies a stop by its stable feed id and display name.
type Stop struct {
	ID   string
	Name string
}

// Calendar looks up the calendar for serviceID.
func (f *Feed) Calendar(serviceID string) (ServiceCalendar, error) {
	cal, ok := f.Calendars[serviceID]
	if !ok {
		return ServiceCalendar{}, fmt.Errorf("%w %q", ErrMissingCalendar, serviceID)
	}
	return cal, nil
}
