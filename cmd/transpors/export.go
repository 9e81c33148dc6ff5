package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"transpors.dev/internal/exporter"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/timetable"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		flags queryFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day of departures to an ICS file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			q, after, err := flags.query(c)
			if err != nil {
				return err
			}

			cfg, err := c.paths.Load()
			if err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer logging.HandleDeferredError(&err, store.Close, c.logger, "close_schedule_store")

			tables, err := c.loadTimetables(cmd.Context(), cfg, store, nil)
			if err != nil {
				return err
			}
			departures := timetable.UpcomingAll(tables.Departures(q), after, flags.limit)

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer logging.HandleDeferredError(&err, file.Close, c.logger, "close_export_file")

			if err := exporter.WriteICS(file, departures, q.Date, time.Local); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported departures of %s to %s\n", q.Date.Format("2006-01-02"), out)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "departures.ics", "Output file path")
	return cmd
}
