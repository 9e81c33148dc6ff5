package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"transpors.dev/gtfsdb"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/ui"
)

func (c *cli) stopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stops",
		Short: "List the stops whose schedules are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer logging.HandleDeferredError(&err, store.Close, c.logger, "close_schedule_store")

			if counts, err := store.TableCounts(cmd.Context()); err == nil {
				c.logger.Debug("schedule store", slog.Any("tables", counts))
			}

			stops, err := store.ListStops(cmd.Context())
			if err != nil {
				return err
			}
			if err := ui.RenderStops(cmd.OutOrStdout(), stops); err != nil {
				return err
			}

			meta, err := store.GetImportMetadata(cmd.Context())
			if errors.Is(err, gtfsdb.ErrNoImportMetadata) {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nfeed %s (sha256 %s), imported %s\n",
				meta.FileSource, shortHash(meta.FileHash), meta.ImportTime.Local().Format("2006-01-02 15:04"))
			return err
		},
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
