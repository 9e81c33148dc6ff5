package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
)

const createScheduleRecordsTable = `
	CREATE TABLE IF NOT EXISTS schedule_records (
		stop_id TEXT NOT NULL REFERENCES stops(stop_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		route TEXT NOT NULL,
		trip TEXT NOT NULL,
		monday INTEGER NOT NULL,
		tuesday INTEGER NOT NULL,
		wednesday INTEGER NOT NULL,
		thursday INTEGER NOT NULL,
		friday INTEGER NOT NULL,
		saturday INTEGER NOT NULL,
		sunday INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		stop_time INTEGER,
		stop_name TEXT NOT NULL,
		PRIMARY KEY (stop_id, seq)
	);`

// insertRecordBatch inserts rows using a prepared statement inside tx.
func insertRecordBatch(ctx context.Context, tx *sql.Tx, rows []ScheduleRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_records (
			stop_id, seq, route, trip,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			start_date, end_date, stop_time, stop_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, row := range rows {
		var stopTime sql.NullInt64
		if row.StopTime != nil {
			stopTime = sql.NullInt64{Int64: int64(*row.StopTime), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			row.StopID, row.Seq, row.Route, row.Trip,
			row.Monday, row.Tuesday, row.Wednesday, row.Thursday, row.Friday, row.Saturday, row.Sunday,
			row.StartDate, row.EndDate, stopTime, row.StopName,
		)
		if err != nil {
			return fmt.Errorf("error inserting schedule record: %w", err)
		}
	}

	return nil
}
