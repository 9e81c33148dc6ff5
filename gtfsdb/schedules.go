package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
)

// ErrScheduleNotFound is returned when no schedule was stored for a stop.
var ErrScheduleNotFound = errors.New("schedule not found")

// SaveSchedule replaces the stored schedule of a stop in one transaction.
func (c *Client) SaveSchedule(ctx context.Context, stopID, stopName string, db *schedule.Database) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "save_schedule")

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_records WHERE stop_id = ?;`, stopID); err != nil {
		return fmt.Errorf("error clearing schedule of stop %s: %w", stopID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stops (stop_id, stop_name, built_at) VALUES (?, ?, ?)
		ON CONFLICT(stop_id) DO UPDATE SET stop_name = excluded.stop_name, built_at = excluded.built_at;
	`, stopID, stopName, time.Now().Unix()); err != nil {
		return fmt.Errorf("error saving stop %s: %w", stopID, err)
	}

	rows := make([]ScheduleRecord, 0, db.Len())
	if db != nil {
		for i, r := range db.Records {
			rows = append(rows, recordToRow(stopID, i, r))
		}
	}
	if err := insertRecordBatch(ctx, tx, rows); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	if c.config.Verbose {
		c.logger.Info("schedule saved",
			slog.String("stop_id", stopID),
			slog.Int("records", len(rows)))
	}
	return nil
}

// LoadSchedule returns the stored schedule of a stop in its original order.
func (c *Client) LoadSchedule(ctx context.Context, stopID string) (*schedule.Database, error) {
	var exists int
	err := c.DB.QueryRowContext(ctx, `SELECT 1 FROM stops WHERE stop_id = ?;`, stopID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for stop %s", ErrScheduleNotFound, stopID)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading stop %s: %w", stopID, err)
	}

	rows, err := c.DB.QueryContext(ctx, `
		SELECT stop_id, seq, route, trip,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			start_date, end_date, stop_time, stop_name
		FROM schedule_records
		WHERE stop_id = ?
		ORDER BY seq;
	`, stopID)
	if err != nil {
		return nil, fmt.Errorf("error loading schedule of stop %s: %w", stopID, err)
	}
	defer rows.Close() // nolint:errcheck

	db := &schedule.Database{Records: []schedule.Record{}}
	for rows.Next() {
		var (
			row      ScheduleRecord
			stopTime sql.NullInt64
		)
		if err := rows.Scan(
			&row.StopID, &row.Seq, &row.Route, &row.Trip,
			&row.Monday, &row.Tuesday, &row.Wednesday, &row.Thursday, &row.Friday, &row.Saturday, &row.Sunday,
			&row.StartDate, &row.EndDate, &stopTime, &row.StopName,
		); err != nil {
			return nil, fmt.Errorf("error scanning schedule record: %w", err)
		}
		if stopTime.Valid {
			row.StopTime = schedule.Seconds(int(stopTime.Int64))
		}

		record, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("stop %s record %d: %w", stopID, row.Seq, err)
		}
		db.Records = append(db.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error loading schedule of stop %s: %w", stopID, err)
	}

	return db, nil
}

// DeleteSchedule removes a stop and its records. Deleting an unknown stop is
// not an error.
func (c *Client) DeleteSchedule(ctx context.Context, stopID string) error {
	if _, err := c.DB.ExecContext(ctx, `DELETE FROM stops WHERE stop_id = ?;`, stopID); err != nil {
		return fmt.Errorf("error deleting schedule of stop %s: %w", stopID, err)
	}
	return nil
}
