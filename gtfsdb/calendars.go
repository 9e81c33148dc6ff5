package gtfsdb

import (
	"fmt"
	"time"

	"transpors.dev/internal/schedule"
)

const calendarDateLayout = "20060102"

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// recordToRow flattens a schedule record and its calendar into a row.
func recordToRow(stopID string, seq int, r schedule.Record) ScheduleRecord {
	cal := r.Calendar
	return ScheduleRecord{
		StopID:    stopID,
		Seq:       seq,
		Route:     r.Route,
		Trip:      r.Trip,
		Monday:    boolToInt(cal.Monday),
		Tuesday:   boolToInt(cal.Tuesday),
		Wednesday: boolToInt(cal.Wednesday),
		Thursday:  boolToInt(cal.Thursday),
		Friday:    boolToInt(cal.Friday),
		Saturday:  boolToInt(cal.Saturday),
		Sunday:    boolToInt(cal.Sunday),
		StartDate: cal.StartDate.Format(calendarDateLayout),
		EndDate:   cal.EndDate.Format(calendarDateLayout),
		StopTime:  r.StopTime,
		StopName:  r.Stop,
	}
}

// rowToRecord is the inverse of recordToRow.
func rowToRecord(row ScheduleRecord) (schedule.Record, error) {
	start, err := time.Parse(calendarDateLayout, row.StartDate)
	if err != nil {
		return schedule.Record{}, fmt.Errorf("invalid start_date %q: %w", row.StartDate, err)
	}
	end, err := time.Parse(calendarDateLayout, row.EndDate)
	if err != nil {
		return schedule.Record{}, fmt.Errorf("invalid end_date %q: %w", row.EndDate, err)
	}

	return schedule.Record{
		Route: row.Route,
		Trip:  row.Trip,
		Calendar: schedule.ServiceCalendar{
			Monday:    row.Monday == 1,
			Tuesday:   row.Tuesday == 1,
			Wednesday: row.Wednesday == 1,
			Thursday:  row.Thursday == 1,
			Friday:    row.Friday == 1,
			Saturday:  row.Saturday == 1,
			Sunday:    row.Sunday == 1,
			StartDate: start,
			EndDate:   end,
		},
		StopTime: row.StopTime,
		Stop:     row.StopName,
	}, nil
}
