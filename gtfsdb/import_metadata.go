package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoImportMetadata is returned before any feed has been imported.
var ErrNoImportMetadata = errors.New("no import metadata")

const createImportMetadataTable = `
	CREATE TABLE IF NOT EXISTS import_metadata (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		source TEXT NOT NULL,
		file_hash TEXT NOT NULL,
		imported_at INTEGER NOT NULL
	);`

// SetImportMetadata records the feed the stored schedules come from.
func (c *Client) SetImportMetadata(ctx context.Context, meta ImportMetadata) error {
	if meta.ImportTime.IsZero() {
		meta.ImportTime = time.Now()
	}
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO import_metadata (id, source, file_hash, imported_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			file_hash = excluded.file_hash,
			imported_at = excluded.imported_at;
	`, meta.FileSource, meta.FileHash, meta.ImportTime.Unix())
	if err != nil {
		return fmt.Errorf("error saving import metadata: %w", err)
	}
	return nil
}

// GetImportMetadata returns ErrNoImportMetadata until SetImportMetadata ran.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var (
		meta       ImportMetadata
		importedAt int64
	)
	err := c.DB.QueryRowContext(ctx,
		`SELECT source, file_hash, imported_at FROM import_metadata WHERE id = 1;`,
	).Scan(&meta.FileSource, &meta.FileHash, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportMetadata{}, ErrNoImportMetadata
	}
	if err != nil {
		return ImportMetadata{}, fmt.Errorf("error reading import metadata: %w", err)
	}
	meta.ImportTime = time.Unix(importedAt, 0)
	return meta, nil
}

// IsCurrent reports whether the stored schedules were built from a feed with
// the given hash and cover every stop in stopIDs.
func (c *Client) IsCurrent(ctx context.Context, fileHash string, stopIDs []string) (bool, error) {
	meta, err := c.GetImportMetadata(ctx)
	if errors.Is(err, ErrNoImportMetadata) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if meta.FileHash != fileHash {
		return false, nil
	}

	counts, err := c.RecordCounts(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range stopIDs {
		if _, ok := counts[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}
