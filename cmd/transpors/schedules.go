package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transpors.dev/gtfsdb"
	"transpors.dev/internal/config"
	"transpors.dev/internal/gtfs"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/metrics"
	"transpors.dev/internal/schedule"
	"transpors.dev/internal/timetable"
)

func (c *cli) openStore() (*gtfsdb.Client, error) {
	if err := c.paths.EnsureDir(); err != nil {
		return nil, err
	}
	dbConfig := gtfsdb.NewConfig(c.paths.Store(), c.env, c.logger.Enabled(context.Background(), slog.LevelDebug))
	dbConfig.Logger = c.logger
	return gtfsdb.NewClient(dbConfig)
}

func scheduleStops(cfg *config.AppConfig) []schedule.Stop {
	stops := make([]schedule.Stop, 0, len(cfg.Stops))
	for _, s := range cfg.Stops {
		stops = append(stops, schedule.Stop{ID: s.ID, Name: s.Name})
	}
	return stops
}

// buildAndStore builds the schedule of every stop in stops from the parsed
// feed and replaces the stored copies. The import metadata is written last so
// an interrupted build is never mistaken for a current one.
func (c *cli) buildAndStore(ctx context.Context, manager *gtfs.Manager, source string, stops []schedule.Stop, store *gtfsdb.Client, collector *metrics.Collector) ([]*schedule.Database, error) {
	stats := manager.Statistics()
	logging.LogOperation(c.logger, "feed_loaded",
		slog.String("source", stats.Source),
		slog.Int("routes", stats.Routes),
		slog.Int("trips", stats.Trips),
		slog.Int("stops", stats.Stops),
		slog.Int("calendars", stats.Calendars))

	start := time.Now()
	dbs, err := manager.BuildDatabases(ctx, stops)
	if err != nil {
		return nil, err
	}
	if collector != nil {
		collector.ObserveBuild(time.Since(start))
	}

	for i, stop := range stops {
		if err := store.SaveSchedule(ctx, stop.ID, stop.Name, dbs[i]); err != nil {
			return nil, err
		}
		if collector != nil {
			collector.SetScheduleRecords(stop.ID, dbs[i].Len())
		}
	}

	err = store.SetImportMetadata(ctx, gtfsdb.ImportMetadata{
		FileSource: source,
		FileHash:   manager.FileHash(),
		ImportTime: c.now(),
	})
	if err != nil {
		return nil, err
	}
	return dbs, nil
}

// loadTimetables reads the stored schedules of the configured stops. Stops
// missing from the store are built from the local data file and stored.
func (c *cli) loadTimetables(ctx context.Context, cfg *config.AppConfig, store *gtfsdb.Client, collector *metrics.Collector) (*timetable.Timetables, error) {
	order, err := schedule.ParseOrder(cfg.UnknownTimes)
	if err != nil {
		return nil, err
	}

	stops := scheduleStops(cfg)
	databases := make([]*schedule.Database, len(stops))
	var missing []int

	for i, stop := range stops {
		db, err := store.LoadSchedule(ctx, stop.ID)
		if errors.Is(err, gtfsdb.ErrScheduleNotFound) {
			missing = append(missing, i)
			continue
		}
		if err != nil {
			return nil, err
		}
		databases[i] = db
		if collector != nil {
			collector.SetScheduleRecords(stop.ID, db.Len())
		}
	}

	if len(missing) > 0 {
		c.logger.Info("building missing schedules", slog.Int("stops_count", len(missing)))

		manager, err := gtfs.LoadGTFSManager(cfg.DataFilePath, c.logger)
		if err != nil {
			return nil, fmt.Errorf("schedules are missing and the data file could not be read (try \"transpors rebuild\"): %w", err)
		}

		toBuild := make([]schedule.Stop, 0, len(missing))
		for _, i := range missing {
			toBuild = append(toBuild, stops[i])
		}
		built, err := c.buildAndStore(ctx, manager, cfg.DataFileURL, toBuild, store, collector)
		if err != nil {
			return nil, err
		}
		for j, i := range missing {
			databases[i] = built[j]
		}
	}

	entries := make([]timetable.Stop, 0, len(stops))
	for i, stop := range stops {
		entries = append(entries, timetable.Stop{ID: stop.ID, Name: stop.Name, Database: databases[i]})
	}

	logging.LogOperation(c.logger, "timetables_loaded",
		slog.Int("stops_count", len(entries)),
		slog.String("unknown_times", order.String()))

	return timetable.New(entries, order), nil
}

// loadConfig returns the saved configuration, running the setup wizard
// first when there is none.
func (c *cli) loadConfig(ctx context.Context) (*config.AppConfig, error) {
	cfg, err := c.paths.Load()
	if errors.Is(err, config.ErrNotConfigured) {
		c.logger.Info("no configuration found, starting setup", slog.String("dir", c.paths.Dir))
		return c.runSetup(ctx)
	}
	return cfg, err
}
