package gtfsdb

import (
	"context"
	"database/sql"
	"log/slog"
)

// Client stores precomputed stop schedules in SQLite.
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database described by config and migrates its schema.
func NewClient(config Config) (*Client, error) {
	logger := config.logger()

	db, err := InitDB(context.Background(), config)
	if err != nil {
		return nil, err
	}
	if config.Verbose {
		logger.Info("schedule store ready", slog.String("path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
