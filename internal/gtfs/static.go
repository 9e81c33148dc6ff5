package gtfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jamespfennell/gtfs"

	"transpors.dev/internal/schedule"
)

// DataFileName is the name of the retrieved feed inside the data directory.
const DataFileName = "data_file.gtfs"

var httpClient = &http.Client{Timeout: 5 * time.Minute}

// RetrieveDataFile downloads source (http or https) or copies it (local path)
// into dir/data_file.gtfs and returns the resulting path.
func RetrieveDataFile(ctx context.Context, source string, dir string) (string, error) {
	b, err := rawGtfsData(ctx, source)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating data directory: %w", err)
	}

	dest := filepath.Join(dir, DataFileName)
	tmp, err := os.CreateTemp(dir, DataFileName+".*")
	if err != nil {
		return "", fmt.Errorf("error creating data file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("error writing data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("error writing data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("error storing data file: %w", err)
	}

	return dest, nil
}

func rawGtfsData(ctx context.Context, source string) ([]byte, error) {
	if isLocalSource(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// LoadStatic reads and parses the feed stored at path.
func LoadStatic(path string) (*gtfs.Static, error) {
	staticData, _, _, err := loadGTFSData(path)
	return staticData, err
}

// loadGTFSData parses the feed at path and returns it together with its raw
// trip tables and the SHA-256 of the file.
func loadGTFSData(path string) (*gtfs.Static, *rawTables, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("error reading GTFS data: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, nil, "", fmt.Errorf("error parsing GTFS data: %w", err)
	}

	raw, err := readRawTables(b)
	if err != nil {
		return nil, nil, "", fmt.Errorf("error parsing GTFS data: %w", err)
	}

	sum := sha256.Sum256(b)
	return staticData, raw, hex.EncodeToString(sum[:]), nil
}

// FeedFromStatic converts parsed GTFS data into the feed schedules are built
// from. Services without a calendar.txt row have zero dates and get no
// calendar; building a schedule that reaches one of them fails.
func FeedFromStatic(staticData *gtfs.Static) *schedule.Feed {
	return feedFromStatic(staticData, nil)
}

// feedFromStatic takes trips and stop times from raw when it is set, so stop
// times without an arrival time are kept with an unknown time.
func feedFromStatic(staticData *gtfs.Static, raw *rawTables) *schedule.Feed {
	feed := &schedule.Feed{
		Routes:    make([]schedule.Route, 0, len(staticData.Routes)),
		Trips:     make([]schedule.Trip, 0, len(staticData.Trips)),
		Calendars: make(map[string]schedule.ServiceCalendar, len(staticData.Services)),
	}

	for _, r := range staticData.Routes {
		feed.Routes = append(feed.Routes, schedule.Route{ID: r.Id, ShortName: r.ShortName})
	}

	for _, s := range staticData.Services {
		if s.StartDate.IsZero() || s.EndDate.IsZero() {
			continue
		}
		feed.Calendars[s.Id] = schedule.ServiceCalendar{
			Monday:    s.Monday,
			Tuesday:   s.Tuesday,
			Wednesday: s.Wednesday,
			Thursday:  s.Thursday,
			Friday:    s.Friday,
			Saturday:  s.Saturday,
			Sunday:    s.Sunday,
			StartDate: schedule.DateOf(s.StartDate),
			EndDate:   schedule.DateOf(s.EndDate),
		}
	}

	if raw != nil {
		feed.Trips = rawTrips(staticData, raw)
		return feed
	}

	for _, t := range staticData.Trips {
		trip := schedule.Trip{
			ID:        t.ID,
			StopTimes: make([]schedule.StopTime, 0, len(t.StopTimes)),
		}
		if t.Route != nil {
			trip.RouteID = t.Route.Id
		}
		if t.Service != nil {
			trip.ServiceID = t.Service.Id
		}
		for _, st := range t.StopTimes {
			if st.Stop == nil {
				continue
			}
			trip.StopTimes = append(trip.StopTimes, schedule.StopTime{
				Stop:        schedule.Stop{ID: st.Stop.Id, Name: st.Stop.Name},
				ArrivalTime: schedule.Seconds(int(st.ArrivalTime / time.Second)),
			})
		}
		feed.Trips = append(feed.Trips, trip)
	}

	return feed
}

// rawTrips builds trips in trips.txt order. Stop times at stops missing from
// stops.txt are skipped.
func rawTrips(staticData *gtfs.Static, raw *rawTables) []schedule.Trip {
	stops := make(map[string]schedule.Stop, len(staticData.Stops))
	for _, s := range staticData.Stops {
		stops[s.Id] = schedule.Stop{ID: s.Id, Name: s.Name}
	}

	trips := make([]schedule.Trip, 0, len(raw.trips))
	for _, t := range raw.trips {
		rows := raw.stopTimes[t.id]
		trip := schedule.Trip{
			ID:        t.id,
			RouteID:   t.routeID,
			ServiceID: t.serviceID,
			StopTimes: make([]schedule.StopTime, 0, len(rows)),
		}
		for _, row := range rows {
			stop, ok := stops[row.stopID]
			if !ok {
				continue
			}
			trip.StopTimes = append(trip.StopTimes, schedule.StopTime{Stop: stop, ArrivalTime: row.arrival})
		}
		trips = append(trips, trip)
	}
	return trips
}
