package timetable

import "transpors.dev/internal/schedule"

// Upcoming narrows d to records at or after the given seconds-of-day and to at
// most limit entries. Records without a time are only kept when after is zero.
// A limit of zero or less keeps everything.
func Upcoming(d Departure, after int, limit int) Departure {
	kept := make([]*schedule.Record, 0, len(d.Departures))
	for _, r := range d.Departures {
		if r.StopTime == nil {
			if after > 0 {
				continue
			}
		} else if *r.StopTime < after {
			continue
		}
		kept = append(kept, r)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return Departure{Stop: d.Stop, Departures: kept}
}

// UpcomingAll applies Upcoming to every element of departures.
func UpcomingAll(departures []Departure, after int, limit int) []Departure {
	out := make([]Departure, 0, len(departures))
	for _, d := range departures {
		out = append(out, Upcoming(d, after, limit))
	}
	return out
}
