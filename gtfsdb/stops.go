package gtfsdb

import (
	"context"
	"fmt"
	"time"
)

const createStopsTable = `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		stop_name TEXT NOT NULL,
		built_at INTEGER NOT NULL
	);`

// ListStops returns every stop with a stored schedule, ordered by name.
func (c *Client) ListStops(ctx context.Context) ([]Stop, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT s.stop_id, s.stop_name, s.built_at, COUNT(r.seq)
		FROM stops s
		LEFT JOIN schedule_records r ON r.stop_id = s.stop_id
		GROUP BY s.stop_id, s.stop_name, s.built_at
		ORDER BY s.stop_name, s.stop_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	stops := []Stop{}
	for rows.Next() {
		var (
			stop    Stop
			builtAt int64
		)
		if err := rows.Scan(&stop.ID, &stop.Name, &builtAt, &stop.Records); err != nil {
			return nil, fmt.Errorf("error scanning stop: %w", err)
		}
		stop.BuiltAt = time.Unix(builtAt, 0)
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}
	return stops, nil
}

// RecordCounts maps stop id to the number of stored records.
func (c *Client) RecordCounts(ctx context.Context) (map[string]int, error) {
	stops, err := c.ListStops(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(stops))
	for _, s := range stops {
		counts[s.ID] = s.Records
	}
	return counts, nil
}
