package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transpors.dev/internal/logging"
	"transpors.dev/internal/schedule"
	"transpors.dev/internal/timetable"
	"transpors.dev/internal/ui"
	"transpors.dev/internal/utils"
)

type queryFlags struct {
	date  string
	after string
	limit int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Service date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.after, "after", "", "Only departures at or after HH:MM")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "At most this many departures per stop (0 for all)")
}

// query turns the flags into a query, falling back to today's date.
func (f *queryFlags) query(c *cli) (schedule.Query, int, error) {
	q := schedule.QueryAt(c.now())
	if f.limit < 0 {
		return q, 0, fmt.Errorf("--limit must be non-negative, got %d", f.limit)
	}
	if f.date != "" {
		date, err := utils.ParseDate(f.date)
		if err != nil {
			return q, 0, err
		}
		q = schedule.Query{Date: date, Weekday: date.Weekday()}
	}

	after := 0
	if f.after != "" {
		var err error
		if after, err = utils.ParseTimeOfDay(f.after); err != nil {
			return q, 0, err
		}
	}
	return q, after, nil
}

func (c *cli) departuresCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "departures",
		Short: "Print the departures of the configured stops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			q, after, err := flags.query(c)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig(cmd.Context())
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
			return ui.Render(cmd.OutOrStdout(), departures)
		},
	}
	flags.register(cmd)
	return cmd
}
