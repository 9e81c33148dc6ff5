package restapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transpors.dev/internal/app"
	"transpors.dev/internal/appconf"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/metrics"
	"transpors.dev/internal/models"
	"transpors.dev/internal/schedule"
	"transpors.dev/internal/timetable"
)

// testNow is a Sunday.
var testNow = time.Date(2020, 12, 6, 16, 0, 0, 0, time.UTC)

func testTimetables() *timetable.Timetables {
	weekdays := schedule.ServiceCalendar{
		Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	weekends := weekdays
	weekends.Monday, weekends.Tuesday, weekends.Wednesday, weekends.Thursday, weekends.Friday = false, false, false, false, false
	weekends.Saturday, weekends.Sunday = true, true

	central := &schedule.Database{Records: []schedule.Record{
		{Route: "9", Trip: "WE", Calendar: weekends, StopTime: schedule.Seconds(9*3600 + 20*60), Stop: "Central Station"},
		{Route: "22", Trip: "WE", Calendar: weekends, StopTime: nil, Stop: "Central Station"},
		{Route: "22", Trip: "WD", Calendar: weekdays, StopTime: schedule.Seconds(8 * 3600), Stop: "Central Station"},
		{Route: "22", Trip: "WE", Calendar: weekends, StopTime: schedule.Seconds(25*3600 + 10*60), Stop: "Central Station"},
	}}
	market := &schedule.Database{Records: []schedule.Record{
		{Route: "22", Trip: "WD", Calendar: weekdays, StopTime: schedule.Seconds(8*3600 + 10*60), Stop: "Market Square"},
	}}

	return timetable.New([]timetable.Stop{
		{ID: "central", Name: "Central Station", Database: central},
		{ID: "market", Name: "Market Square", Database: market},
	}, schedule.UnknownFirst)
}

func createTestApiWithConfig(t *testing.T, config appconf.Config) (*RestAPI, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	application := &app.Application{
		Config:     config,
		Logger:     logging.NewStructuredLogger(&logs, slog.LevelInfo),
		Timetables: testTimetables(),
		Metrics:    metrics.NewCollector(),
		Clock:      func() time.Time { return testNow },
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Close)
	return api, &logs
}

func createTestApi(t *testing.T) *RestAPI {
	api, _ := createTestApiWithConfig(t, appconf.Config{Env: appconf.Test, RateLimit: 100})
	return api
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()

	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func decodeFieldErrors(t *testing.T, api *RestAPI, endpoint string) (int, map[string][]string) {
	t.Helper()

	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, endpoint, nil))

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return rr.Code, body.FieldErrors
}
