package gtfsdb

import "time"

// Stop is a stop whose schedule has been stored.
type Stop struct {
	ID      string    // stop_id
	Name    string    // stop_name
	BuiltAt time.Time // built_at
	Records int       // number of schedule_records rows
}

// ImportMetadata describes the feed the stored schedules were built from.
type ImportMetadata struct {
	FileSource string    // source
	FileHash   string    // file_hash (hex SHA-256)
	ImportTime time.Time // imported_at
}

// ScheduleRecord is a row of schedule_records.
type ScheduleRecord struct {
	StopID    string // stop_id
	Seq       int    // seq, the position in the stop's schedule
	Route     string // route
	Trip      string // trip
	Monday    int    // monday
	Tuesday   int    // tuesday
	Wednesday int    // wednesday
	Thursday  int    // thursday
	Friday    int    // friday
	Saturday  int    // saturday
	Sunday    int    // sunday
	StartDate string // start_date (YYYYMMDD)
	EndDate   string // end_date (YYYYMMDD)
	StopTime  *int   // stop_time, NULL when unknown
	StopName  string // stop_name
}
