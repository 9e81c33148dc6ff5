package schedule

// Record is one (route, trip, stop, calendar) intersection at a stop.
type Record struct {
	// Route is the route short name.
	Route string
	// Trip holds the trip's service id, which is what the calendar is keyed on.
	Trip     string
	Calendar ServiceCalendar
	// StopTime is the arrival time in seconds since midnight, nil if unknown.
	StopTime *int
	// Stop is the display name of the stop the schedule was built for.
	Stop string
}

// HasTime reports whether the record carries an arrival time.
func (r *Record) HasTime() bool {
	return r.StopTime != nil
}

// Database is the materialized schedule of a single stop. It is built once and
// never modified afterwards, so it can be queried from several goroutines.
type Database struct {
	Records []Record
}

// Len returns the number of records in the database.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.Records)
}

// Seconds returns a pointer to a copy of s.
func Seconds(s int) *int {
	return &s
}

func cloneSeconds(s *int) *int {
	if s == nil {
		return nil
	}
	return Seconds(*s)
}
