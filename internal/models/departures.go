package models

import (
	"transpors.dev/internal/schedule"
	"transpors.dev/internal/timetable"
	"transpors.dev/internal/utils"
)

// Departure is one scheduled departure from a stop.
type Departure struct {
	RouteShortName string `json:"routeShortName"`
	ServiceID      string `json:"serviceId"`
	StopName       string `json:"stopName"`
	// Time is HH:MM, empty when the feed has no time for the departure.
	Time string `json:"time"`
	// SecondsOfDay is nil when the time is unknown.
	SecondsOfDay *int `json:"secondsOfDay"`
}

// StopDepartures lists the departures of one stop for a service date.
type StopDepartures struct {
	StopID     string      `json:"stopId"`
	StopName   string      `json:"stopName"`
	Date       string      `json:"date"`
	Weekday    string      `json:"weekday"`
	Departures []Departure `json:"departures"`
}

// Stop is a configured stop and the size of its schedule.
type Stop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Records int    `json:"records"`
}

func NewDeparture(r *schedule.Record) Departure {
	return Departure{
		RouteShortName: r.Route,
		ServiceID:      r.Trip,
		StopName:       r.Stop,
		Time:           utils.FormatOptionalTimeOfDay(r.StopTime),
		SecondsOfDay:   r.StopTime,
	}
}

func NewStopDepartures(d timetable.Departure, q schedule.Query) StopDepartures {
	departures := make([]Departure, 0, len(d.Departures))
	for _, r := range d.Departures {
		departures = append(departures, NewDeparture(r))
	}
	return StopDepartures{
		StopID:     d.Stop.ID,
		StopName:   d.Stop.Name,
		Date:       utils.FormatDate(q.Date),
		Weekday:    q.Weekday.String(),
		Departures: departures,
	}
}

func NewStop(s *timetable.Stop) Stop {
	return Stop{ID: s.ID, Name: s.Name, Records: s.Database.Len()}
}
