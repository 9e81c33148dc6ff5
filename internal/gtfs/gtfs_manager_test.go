package gtfs

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	manager, err := LoadGTFSManager(writeTestFeed(t), logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo))
	require.NoError(t, err)
	return manager
}

func TestInitGTFSManager(t *testing.T) {
	src := writeTestFeed(t)
	dir := t.TempDir()
	var logs bytes.Buffer

	manager, err := InitGTFSManager(context.Background(), Config{
		GtfsURL: src,
		DataDir: dir,
		Logger:  logging.NewStructuredLogger(&logs, slog.LevelInfo),
	})
	require.NoError(t, err)

	assert.Equal(t, src, manager.Source())
	assert.Equal(t, filepath.Join(dir, DataFileName), manager.DataFile())
	assert.Len(t, manager.FileHash(), 64)
	assert.Contains(t, logs.String(), `"msg":"gtfs_data_loaded"`)

	stats := manager.Statistics()
	assert.Equal(t, 2, stats.Routes)
	assert.Equal(t, 3, stats.Trips)
	assert.Equal(t, 4, stats.Stops)
	assert.Equal(t, 2, stats.Calendars)
	assert.True(t, stats.LocalFile)
}

func TestInitGTFSManagerFailure(t *testing.T) {
	var logs bytes.Buffer

	_, err := InitGTFSManager(context.Background(), Config{
		GtfsURL: filepath.Join(t.TempDir(), "missing.zip"),
		DataDir: t.TempDir(),
		Logger:  logging.NewStructuredLogger(&logs, slog.LevelInfo),
	})
	require.Error(t, err)
	assert.Contains(t, logs.String(), `"msg":"failed to retrieve data file"`)
}

func TestManager_SearchStops(t *testing.T) {
	manager := newTestManager(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "substring", query: "Market", want: []string{"Market Square -> Market Square", "Market Square -> Central Station"}},
		{name: "case insensitive", query: "station", want: []string{"Central Station -> Market Square"}},
		{name: "sorted by name", query: "t", want: []string{
			"Central Station -> Market Square",
			"Depot -> Central Station",
			"Market Square -> Market Square",
			"Market Square -> Central Station",
		}},
		{name: "no match", query: "Airport", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := manager.SearchStops(tt.query)
			labels := make([]string, 0, len(matches))
			for _, m := range matches {
				labels = append(labels, m.Label())
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestManager_Terminus(t *testing.T) {
	manager := newTestManager(t)

	unvisited := schedule.Stop{ID: "nowhere", Name: "Nowhere"}
	assert.Equal(t, unvisited, manager.Terminus(unvisited))

	market2, ok := manager.Stop("market2")
	require.True(t, ok)
	assert.Equal(t, "Central Station", manager.Terminus(market2).Name)

	_, ok = manager.Stop("nowhere")
	assert.False(t, ok)
}

func TestManager_BuildDatabases(t *testing.T) {
	manager := newTestManager(t)
	central, _ := manager.Stop("central")
	depot, _ := manager.Stop("depot")

	dbs, err := manager.BuildDatabases(context.Background(), []schedule.Stop{central, depot})
	require.NoError(t, err)
	require.Len(t, dbs, 2)
	assert.Equal(t, 3, dbs[0].Len())
	assert.Equal(t, 2, dbs[1].Len())

	for _, r := range dbs[0].Records {
		assert.Equal(t, "Central Station", r.Stop)
	}

	sunday := schedule.Query{Date: time.Date(2020, 12, 6, 0, 0, 0, 0, time.UTC), Weekday: time.Sunday}
	departures := schedule.NextDepartures(dbs[0], sunday, schedule.UnknownFirst)
	require.Len(t, departures, 2)
	assert.Equal(t, "9", departures[0].Route)
	assert.Equal(t, 9*3600+20*60, *departures[0].StopTime)
	assert.Equal(t, "22", departures[1].Route)
	assert.Equal(t, "WE", departures[1].Trip)

	monday := schedule.Query{Date: time.Date(2020, 12, 7, 0, 0, 0, 0, time.UTC), Weekday: time.Monday}
	departures = schedule.NextDepartures(dbs[0], monday, schedule.UnknownFirst)
	require.Len(t, departures, 1)
	assert.Equal(t, "WD", departures[0].Trip)
	assert.Equal(t, 8*3600, *departures[0].StopTime)
}
