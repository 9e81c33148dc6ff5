package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"transpors.dev/internal/appconf"
	"transpors.dev/internal/logging"
)

const inMemory = ":memory:"

// InitDB opens the SQLite database and creates the schedule tables.
func InitDB(ctx context.Context, config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != inMemory {
		return nil, errors.New("test database must use in-memory storage")
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// SQLite has a single writer and every in-memory connection is its own
	// database, so the pool is pinned to one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}

	if err := migrate(ctx, db, config); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, config Config) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, config.logger(), "schema_migration")

	for _, table := range []struct {
		name string
		stmt string
	}{
		{"stops", createStopsTable},
		{"schedule_records", createScheduleRecordsTable},
		{"import_metadata", createImportMetadataTable},
	} {
		if _, err := tx.ExecContext(ctx, table.stmt); err != nil {
			return fmt.Errorf("error creating table %s: %w", table.name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_schedule_records_stop_id ON schedule_records(stop_id);
	`); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
