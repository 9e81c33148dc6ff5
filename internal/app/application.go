package app

import (
	"log/slog"
	"time"

	"transpors.dev/gtfsdb"
	"transpors.dev/internal/appconf"
	"transpors.dev/internal/metrics"
	"transpors.dev/internal/timetable"
)

// Application holds the dependencies shared by the HTTP handlers, helpers
// and middleware of the serve command.
type Application struct {
	Config     appconf.Config
	Logger     *slog.Logger
	Timetables *timetable.Timetables
	Metrics    *metrics.Collector
	Store      *gtfsdb.Client
	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

// Now returns the application's notion of the current time.
func (app *Application) Now() time.Time {
	if app.Clock != nil {
		return app.Clock()
	}
	return time.Now()
}
