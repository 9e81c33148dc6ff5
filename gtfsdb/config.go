package gtfsdb

import (
	"log/slog"

	"transpors.dev/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	// Database configuration
	DBPath  string // Path to SQLite database file
	Env     appconf.Environment
	Verbose bool // Verbose logging
	Logger  *slog.Logger
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	config := Config{
		DBPath:  dbPath,
		Env:     env,
		Verbose: verbose,
	}

	return config
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
