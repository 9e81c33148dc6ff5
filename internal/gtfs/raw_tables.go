package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// rawTables keeps the rows of trips.txt and stop_times.txt as written in the
// file. The parser drops stop times without arrival and departure times and
// reports a missing arrival as midnight, so trips and their stop times are
// rebuilt from these rows.
type rawTables struct {
	trips     []rawTrip
	stopTimes map[string][]rawStopTime
}

type rawTrip struct {
	id        string
	routeID   string
	serviceID string
}

type rawStopTime struct {
	stopID   string
	sequence int
	// arrival is nil when arrival_time is empty.
	arrival *int
}

// readRawTables reads trips.txt and stop_times.txt from the zipped feed in b.
// Stop times are grouped by trip and ordered by stop_sequence.
func readRawTables(b []byte) (*rawTables, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("error opening GTFS archive: %w", err)
	}

	tables := &rawTables{stopTimes: make(map[string][]rawStopTime)}

	err = readTable(zr, "trips.txt", []string{"trip_id", "route_id", "service_id"}, func(row []string) error {
		tables.trips = append(tables.trips, rawTrip{id: row[0], routeID: row[1], serviceID: row[2]})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(zr, "stop_times.txt", []string{"trip_id", "stop_id", "stop_sequence", "arrival_time"}, func(row []string) error {
		sequence, err := strconv.Atoi(row[2])
		if err != nil {
			return fmt.Errorf("invalid stop_sequence %q for trip %s", row[2], row[0])
		}
		arrival, err := parseArrivalTime(row[3])
		if err != nil {
			return fmt.Errorf("trip %s: %w", row[0], err)
		}
		tables.stopTimes[row[0]] = append(tables.stopTimes[row[0]], rawStopTime{
			stopID:   row[1],
			sequence: sequence,
			arrival:  arrival,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rows := range tables.stopTimes {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].sequence < rows[j].sequence })
	}
	return tables, nil
}

// readTable calls fn with the requested columns of every row of name. A
// column missing from the header reads as the empty string.
func readTable(zr *zip.Reader, name string, columns []string, fn func(row []string) error) error {
	var file *zip.File
	for _, f := range zr.File {
		if path.Base(f.Name) == name {
			file = f
			break
		}
	}
	if file == nil {
		return fmt.Errorf("GTFS archive has no %s", name)
	}

	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("error opening %s: %w", name, err)
	}
	defer rc.Close() // nolint

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("error reading %s header: %w", name, err)
	}
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	row := make([]string, len(columns))
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading %s: %w", name, err)
		}

		for i, c := range columns {
			row[i] = ""
			if p, ok := positions[c]; ok && p < len(record) {
				row[i] = strings.TrimSpace(record[p])
			}
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

// parseArrivalTime reads an H:MM:SS time, which may pass 24:00:00. An empty
// value is an unknown time.
func parseArrivalTime(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid arrival_time %q", value)
	}
	var fields [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return nil, fmt.Errorf("invalid arrival_time %q", value)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid arrival_time %q", value)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return nil, fmt.Errorf("invalid arrival_time %q", value)
	}

	seconds := fields[0]*3600 + fields[1]*60 + fields[2]
	return &seconds, nil
}
