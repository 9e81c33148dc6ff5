package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Order decides where records without an arrival time end up.
type Order int

const (
	// UnknownFirst places records without a time before every timed record.
	UnknownFirst Order = iota
	// UnknownLast places records without a time after every timed record.
	UnknownLast
)

// ParseOrder accepts "first", "last" or the empty string (UnknownFirst).
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return UnknownFirst, nil
	case "last":
		return UnknownLast, nil
	default:
		return UnknownFirst, fmt.Errorf("unknown ordering %q (want first or last)", s)
	}
}

func (o Order) String() string {
	if o == UnknownLast {
		return "last"
	}
	return "first"
}

func (o Order) less(a, b *int) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return o == UnknownFirst
	case b == nil:
		return o == UnknownLast
	default:
		return *a < *b
	}
}

// Query is the date a departure query is asked for, together with the
// weekday of that date.
type Query struct {
	Date    time.Time
	Weekday time.Weekday
}

// QueryAt builds the query for the local calendar date of t.
func QueryAt(t time.Time) Query {
	return Query{Date: DateOf(t), Weekday: t.Weekday()}
}

// NextDepartures returns the records of db whose calendar covers q, stably
// sorted by arrival time. The returned pointers reference db's records.
func NextDepartures(db *Database, q Query, order Order) []*Record {
	departures := make([]*Record, 0)
	if db == nil {
		return departures
	}

	for i := range db.Records {
		r := &db.Records[i]
		if !r.Calendar.ActiveOn(q.Date) {
			continue
		}
		if !r.Calendar.RunsOn(q.Weekday) {
			continue
		}
		departures = append(departures, r)
	}

	sort.SliceStable(departures, func(i, j int) bool {
		return order.less(departures[i].StopTime, departures[j].StopTime)
	})

	return departures
}
