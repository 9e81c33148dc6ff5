package exporter

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"transpors.dev/internal/timetable"
)

const productID = "-//transpors//departures//EN"

// WriteICS writes one event per timed departure on date to w. Stop times are
// seconds after midnight of date in loc, so times past 24:00 land on the
// following day. Departures without a time are skipped.
func WriteICS(w io.Writer, departures []timetable.Departure, date time.Time, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now()
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	for _, dep := range departures {
		for i, r := range dep.Departures {
			if !r.HasTime() {
				continue
			}
			start := midnight.Add(time.Duration(*r.StopTime) * time.Second)

			event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@transpors", dep.Stop.ID, start.UTC().Format("20060102T150405Z"), i))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(start.Add(time.Minute))
			event.SetSummary(fmt.Sprintf("%s (%s)", r.Route, r.Trip))
			event.SetLocation(dep.Stop.Name)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}
