package gtfs

import (
	"log/slog"
	"strings"
)

// Config tells the Manager where the feed comes from and where to keep it.
type Config struct {
	// GtfsURL is an http(s) URL or a local file path.
	GtfsURL string
	// DataDir receives the retrieved copy of the feed.
	DataDir string
	Logger  *slog.Logger
}

func (config Config) isLocalFile() bool {
	return isLocalSource(config.GtfsURL)
}

func isLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
