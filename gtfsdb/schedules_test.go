package gtfsdb

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transpors.dev/internal/appconf"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testDatabase() *schedule.Database {
	weekdays := schedule.ServiceCalendar{
		Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		StartDate: date(2020, 1, 1), EndDate: date(2020, 12, 31),
	}
	weekends := schedule.ServiceCalendar{
		Saturday: true, Sunday: true,
		StartDate: date(2020, 6, 1), EndDate: date(2021, 5, 31),
	}
	return &schedule.Database{Records: []schedule.Record{
		{Route: "22", Trip: "WD", Calendar: weekdays, StopTime: schedule.Seconds(8 * 3600), Stop: "Central Station"},
		{Route: "9", Trip: "WE", Calendar: weekends, StopTime: nil, Stop: "Central Station"},
		{Route: "22", Trip: "WE", Calendar: weekends, StopTime: schedule.Seconds(25*3600 + 600), Stop: "Central Station"},
	}}
}

func TestSaveAndLoadSchedule(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveSchedule(ctx, "central", "Central Station", testDatabase()))

	db, err := client.LoadSchedule(ctx, "central")
	require.NoError(t, err)
	assert.Equal(t, testDatabase(), db, "records round-trip in insertion order")
	assert.Nil(t, db.Records[1].StopTime, "unknown times stay unknown")
}

func TestSaveScheduleReplaces(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveSchedule(ctx, "central", "Central Station", testDatabase()))

	smaller := &schedule.Database{Records: testDatabase().Records[:1]}
	require.NoError(t, client.SaveSchedule(ctx, "central", "Central Stn", smaller))

	db, err := client.LoadSchedule(ctx, "central")
	require.NoError(t, err)
	assert.Equal(t, smaller, db)

	stops, err := client.ListStops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Central Stn", stops[0].Name)
	assert.Equal(t, 1, stops[0].Records)
}

func TestSaveEmptySchedule(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveSchedule(ctx, "quiet", "Quiet Corner", &schedule.Database{}))

	db, err := client.LoadSchedule(ctx, "quiet")
	require.NoError(t, err)
	assert.Equal(t, 0, db.Len())
	assert.NotNil(t, db.Records)
}

func TestLoadScheduleNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.LoadSchedule(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, ErrScheduleNotFound))
	assert.Contains(t, err.Error(), "nowhere")
}

func TestDeleteSchedule(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveSchedule(ctx, "central", "Central Station", testDatabase()))
	require.NoError(t, client.DeleteSchedule(ctx, "central"))
	require.NoError(t, client.DeleteSchedule(ctx, "central"), "deleting twice is fine")

	_, err := client.LoadSchedule(ctx, "central")
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	counts, err := client.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts["schedule_records"], "records are removed with their stop")
}

func TestListStopsAndRecordCounts(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveSchedule(ctx, "market", "Market Square", &schedule.Database{Records: testDatabase().Records[:2]}))
	require.NoError(t, client.SaveSchedule(ctx, "central", "Central Station", testDatabase()))

	stops, err := client.ListStops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "central", stops[0].ID)
	assert.Equal(t, 3, stops[0].Records)
	assert.Equal(t, "market", stops[1].ID)
	assert.WithinDuration(t, time.Now(), stops[1].BuiltAt, time.Minute)

	counts, err := client.RecordCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"central": 3, "market": 2}, counts)
}

func TestSaveScheduleVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	config := NewConfig(":memory:", appconf.Test, true)
	config.Logger = logging.NewStructuredLogger(&buf, slog.LevelInfo)

	client, err := NewClient(config)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.SaveSchedule(context.Background(), "central", "Central Station", testDatabase()))

	output := buf.String()
	assert.Contains(t, output, `"msg":"schedule store ready"`)
	assert.Contains(t, output, `"msg":"schedule saved"`)
	assert.Contains(t, output, `"records":3`)
}

func TestSaveScheduleHonoursCancellation(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.SaveSchedule(ctx, "central", "Central Station", testDatabase())
	assert.Error(t, err)

	_, err = client.LoadSchedule(context.Background(), "central")
	assert.ErrorIs(t, err, ErrScheduleNotFound, "nothing is written")
}
