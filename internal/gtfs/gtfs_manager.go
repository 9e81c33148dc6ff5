package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"

	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
)

// Manager holds a parsed feed together with the stop index schedules are
// built from.
type Manager struct {
	gtfsSource  string
	dataFile    string
	fileHash    string
	isLocalFile bool
	gtfsData    *gtfs.Static
	feed        *schedule.Feed
	index       *schedule.StopIndex
	stops       map[string]schedule.Stop
	termini     map[string]schedule.Stop
	lastUpdated time.Time
	logger      *slog.Logger
}

// StopMatch is a stop found by SearchStops. Terminus is where the last trip
// calling at the stop ends, which tells apart platforms sharing a name.
type StopMatch struct {
	Stop     schedule.Stop
	Terminus schedule.Stop
}

// Label renders the match as "name -> terminus".
func (m StopMatch) Label() string {
	return m.Stop.Name + " -> " + m.Terminus.Name
}

// Statistics summarises the loaded feed.
type Statistics struct {
	Source      string
	LocalFile   bool
	FileHash    string
	LastUpdated time.Time
	Routes      int
	Trips       int
	Stops       int
	Services    int
	Calendars   int
}

// InitGTFSManager retrieves the feed named by config into config.DataDir,
// parses it and indexes it.
func InitGTFSManager(ctx context.Context, config Config) (*Manager, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path, err := RetrieveDataFile(ctx, config.GtfsURL, config.DataDir)
	if err != nil {
		logging.LogError(logger, "failed to retrieve data file", err,
			slog.String("source", config.GtfsURL))
		return nil, err
	}

	manager, err := LoadGTFSManager(path, logger)
	if err != nil {
		return nil, err
	}
	manager.gtfsSource = config.GtfsURL
	manager.isLocalFile = config.isLocalFile()
	return manager, nil
}

// LoadGTFSManager parses an already retrieved data file.
func LoadGTFSManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	staticData, raw, hash, err := loadGTFSData(path)
	if err != nil {
		return nil, err
	}

	manager := newManager(staticData, raw, logger)
	manager.gtfsSource = path
	manager.dataFile = path
	manager.fileHash = hash
	manager.isLocalFile = true

	logging.LogOperation(logger, "gtfs_data_loaded",
		slog.String("path", path),
		slog.Int("routes", len(staticData.Routes)),
		slog.Int("trips", len(staticData.Trips)),
		slog.Int("stops", len(staticData.Stops)),
		slog.Duration("duration", time.Since(start)))

	return manager, nil
}

// NewManager indexes already parsed data.
func NewManager(staticData *gtfs.Static, logger *slog.Logger) *Manager {
	return newManager(staticData, nil, logger)
}

func newManager(staticData *gtfs.Static, raw *rawTables, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	feed := feedFromStatic(staticData, raw)
	manager := &Manager{
		gtfsData:    staticData,
		feed:        feed,
		index:       schedule.NewStopIndex(feed),
		stops:       make(map[string]schedule.Stop, len(staticData.Stops)),
		termini:     make(map[string]schedule.Stop),
		lastUpdated: time.Now(),
		logger:      logger,
	}

	for _, s := range staticData.Stops {
		manager.stops[s.Id] = schedule.Stop{ID: s.Id, Name: s.Name}
	}

	// Later trips overwrite earlier ones.
	for _, trip := range feed.Trips {
		if len(trip.StopTimes) == 0 {
			continue
		}
		last := trip.StopTimes[len(trip.StopTimes)-1].Stop
		for _, st := range trip.StopTimes {
			manager.termini[st.Stop.ID] = last
		}
	}

	return manager
}

// Source is the path or URL the feed was retrieved from.
func (manager *Manager) Source() string {
	return manager.gtfsSource
}

// DataFile is the local copy the feed was parsed from.
func (manager *Manager) DataFile() string {
	return manager.dataFile
}

// FileHash is the hex SHA-256 of the data file.
func (manager *Manager) FileHash() string {
	return manager.fileHash
}

// Stop looks a stop up by id.
func (manager *Manager) Stop(id string) (schedule.Stop, bool) {
	stop, ok := manager.stops[id]
	return stop, ok
}

// Terminus returns the last stop of the last trip in feed order calling at
// stop, or the stop itself when no trip calls there.
func (manager *Manager) Terminus(stop schedule.Stop) schedule.Stop {
	if terminus, ok := manager.termini[stop.ID]; ok {
		return terminus
	}
	return stop
}

// SearchStops returns stops whose name contains query, ignoring case, sorted
// by name and then id.
func (manager *Manager) SearchStops(query string) []StopMatch {
	needle := strings.ToLower(strings.TrimSpace(query))

	matches := []StopMatch{}
	for _, s := range manager.gtfsData.Stops {
		if !strings.Contains(strings.ToLower(s.Name), needle) {
			continue
		}
		stop := schedule.Stop{ID: s.Id, Name: s.Name}
		matches = append(matches, StopMatch{Stop: stop, Terminus: manager.Terminus(stop)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Stop.Name != matches[j].Stop.Name {
			return matches[i].Stop.Name < matches[j].Stop.Name
		}
		return matches[i].Stop.ID < matches[j].Stop.ID
	})

	return matches
}

// BuildDatabases builds the schedule of every stop in parallel, keeping the
// order of stops.
func (manager *Manager) BuildDatabases(ctx context.Context, stops []schedule.Stop) ([]*schedule.Database, error) {
	start := time.Now()

	dbs, err := schedule.BuildDatabases(ctx, manager.index, stops)
	if err != nil {
		logging.LogError(manager.logger, "failed to build schedules", err,
			slog.Int("stops_count", len(stops)))
		return nil, fmt.Errorf("error building schedules: %w", err)
	}

	records := 0
	for _, db := range dbs {
		records += db.Len()
	}
	logging.LogOperation(manager.logger, "schedules_built",
		slog.Int("stops_count", len(stops)),
		slog.Int("records", records),
		slog.Duration("duration", time.Since(start)))

	return dbs, nil
}

// Statistics summarises the loaded feed.
func (manager *Manager) Statistics() Statistics {
	return Statistics{
		Source:      manager.gtfsSource,
		LocalFile:   manager.isLocalFile,
		FileHash:    manager.fileHash,
		LastUpdated: manager.lastUpdated,
		Routes:      len(manager.gtfsData.Routes),
		Trips:       len(manager.gtfsData.Trips),
		Stops:       len(manager.gtfsData.Stops),
		Services:    len(manager.gtfsData.Services),
		Calendars:   len(manager.feed.Calendars),
	}
}
