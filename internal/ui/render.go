package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"transpors.dev/gtfsdb"
	"transpors.dev/internal/timetable"
	"transpors.dev/internal/utils"
)

// NoDepartures is printed under a stop with nothing left to show.
const NoDepartures = "no departures"

type styles struct {
	heading lipgloss.Style
	route   lipgloss.Style
	time    lipgloss.Style
	muted   lipgloss.Style
}

// newStyles binds the palette to w so colors are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		route:   r.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		time:    r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Render prints every stop's departures: the stop name underlined with one
// dash per character, then one "ROUTE TRIP HH:MM" line per departure.
// Departures without a time are skipped.
func Render(w io.Writer, departures []timetable.Departure) error {
	s := newStyles(w)

	for i, d := range departures {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		name := d.Stop.Name
		if _, err := fmt.Fprintf(w, "%s\n%s\n", s.heading.Render(name),
			s.heading.Render(strings.Repeat("-", utf8.RuneCountInString(name)))); err != nil {
			return err
		}

		printed := 0
		for _, r := range d.Departures {
			if !r.HasTime() {
				continue
			}
			_, err := fmt.Fprintf(w, "%s %s %s\n",
				s.route.Render(r.Route),
				r.Trip,
				s.time.Render(utils.FormatTimeOfDay(*r.StopTime)))
			if err != nil {
				return err
			}
			printed++
		}

		if printed == 0 {
			if _, err := fmt.Fprintln(w, s.muted.Render(NoDepartures)); err != nil {
				return err
			}
		}
	}

	return nil
}

// RenderStops prints the stored schedules, one stop per line.
func RenderStops(w io.Writer, stops []gtfsdb.Stop) error {
	s := newStyles(w)

	if len(stops) == 0 {
		_, err := fmt.Fprintln(w, s.muted.Render("no stops configured"))
		return err
	}

	for _, stop := range stops {
		_, err := fmt.Fprintf(w, "%s %s %s\n",
			s.heading.Render(stop.Name),
			s.muted.Render("("+stop.ID+")"),
			fmt.Sprintf("%d records, built %s", stop.Records, stop.BuiltAt.Local().Format("2006-01-02 15:04")))
		if err != nil {
			return err
		}
	}
	return nil
}
