package gtfs

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
)

func TestParseArrivalTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *int
		wantErr bool
	}{
		{name: "empty is unknown", value: "", want: nil},
		{name: "morning", value: "08:00:00", want: schedule.Seconds(8 * 3600)},
		{name: "single digit hour", value: "7:05:30", want: schedule.Seconds(7*3600 + 5*60 + 30)},
		{name: "past midnight", value: "25:10:00", want: schedule.Seconds(25*3600 + 10*60)},
		{name: "missing seconds", value: "08:00", wantErr: true},
		{name: "signed minutes", value: "08:+5:00", wantErr: true},
		{name: "minutes out of range", value: "08:60:00", wantErr: true},
		{name: "letters", value: "ab:cd:ef", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArrivalTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadRawTables(t *testing.T) {
	t.Run("orders stop times by sequence", func(t *testing.T) {
		raw, err := readRawTables(buildZip(t, feedWith(map[string]string{
			"stop_times.txt": "\ufefftrip_id, arrival_time ,departure_time,stop_id,stop_sequence\n" +
				"t1,08:20:00,08:20:00,depot,3\n" +
				"t1,08:00:00,08:00:00,central,1\n" +
				"t1,,,market,2\n",
		})))
		require.NoError(t, err)

		require.Len(t, raw.trips, 3)
		assert.Equal(t, rawTrip{id: "t1", routeID: "r1", serviceID: "WD"}, raw.trips[0])

		rows := raw.stopTimes["t1"]
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"central", "market", "depot"},
			[]string{rows[0].stopID, rows[1].stopID, rows[2].stopID})
		assert.Equal(t, schedule.Seconds(8*3600), rows[0].arrival)
		assert.Nil(t, rows[1].arrival)
	})

	t.Run("rejects bad sequence", func(t *testing.T) {
		_, err := readRawTables(buildZip(t, feedWith(map[string]string{
			"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
				"t1,08:00:00,08:00:00,central,first\n",
		})))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stop_times.txt line 2")
	})

	t.Run("rejects non-zip data", func(t *testing.T) {
		_, err := readRawTables([]byte("not a zip"))
		assert.Error(t, err)
	})
}

func TestStopTimesWithoutArrival(t *testing.T) {
	path := writeFeed(t, feedWith(map[string]string{
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"t1,08:00:00,,central,1\n" +
			"t2,,,central,2\n",
	}))

	manager, err := LoadGTFSManager(path, logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo))
	require.NoError(t, err)

	central, ok := manager.Stop("central")
	require.True(t, ok)

	databases, err := manager.BuildDatabases(t.Context(), []schedule.Stop{central})
	require.NoError(t, err)
	require.Len(t, databases, 1)

	var times []*int
	for _, record := range databases[0].Records {
		times = append(times, record.StopTime)
	}
	assert.ElementsMatch(t, []*int{schedule.Seconds(8 * 3600), nil}, times)
}
