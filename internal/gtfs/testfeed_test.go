package gtfs

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

var testFeedFiles = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
dpp,DPP,https://dpp.example.com,Europe/Prague
`,
	"stops.txt": `stop_id,stop_name,stop_lat,stop_lon
central,Central Station,50.08,14.43
market,Market Square,50.09,14.42
depot,Depot,50.10,14.40
market2,Market Square,50.09,14.42
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_long_name,route_type
r1,dpp,22,Line 22,0
r2,dpp,9,Line 9,0
`,
	"trips.txt": `route_id,service_id,trip_id
r1,WD,t1
r2,WE,t2
r1,WE,t3
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
t1,08:00:00,08:00:00,central,1
t1,08:10:00,08:10:00,market,2
t1,08:20:00,08:20:00,depot,3
t2,09:00:00,09:00:00,depot,1
t2,09:10:00,09:10:00,market2,2
t2,09:20:00,09:20:00,central,3
t3,25:10:00,25:10:00,central,1
t3,25:20:00,25:20:00,market,2
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WD,1,1,1,1,1,0,0,20200101,20201231
WE,0,0,0,0,0,1,1,20200101,20201231
`,
}

// testFeedZip assembles a small feed: line 22 runs a weekday trip and a late
// weekend trip, line 9 a weekend trip in the other direction.
func testFeedZip(t *testing.T) []byte {
	t.Helper()
	return buildZip(t, testFeedFiles)
}

// buildZip writes files in name order so equal inputs give equal archives.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// feedWith returns the test feed with some files replaced.
func feedWith(overrides map[string]string) map[string]string {
	files := make(map[string]string, len(testFeedFiles))
	for name, content := range testFeedFiles {
		files[name] = content
	}
	for name, content := range overrides {
		files[name] = content
	}
	return files
}

func writeTestFeed(t *testing.T) string {
	t.Helper()
	return writeFeed(t, testFeedFiles)
}

func writeFeed(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, files), 0o644))
	return path
}
