package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"transpors.dev/internal/gtfs"
	"transpors.dev/internal/logging"
)

func (c *cli) rebuildCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Retrieve the feed again and rebuild the stored schedules",
		Long: `Rebuild retrieves the configured data file again and rebuilds the schedule
of every configured stop. Nothing is rebuilt when the feed did not change and
every stop is stored, unless --force is given. Schedules of stops that are no
longer configured are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			cfg, err := c.paths.Load()
			if err != nil {
				return err
			}

			manager, err := gtfs.InitGTFSManager(ctx, gtfs.Config{
				GtfsURL: cfg.DataFileURL,
				DataDir: c.paths.Dir,
				Logger:  c.logger,
			})
			if err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer logging.HandleDeferredError(&err, store.Close, c.logger, "close_schedule_store")

			if !force {
				current, err := store.IsCurrent(ctx, manager.FileHash(), cfg.StopIDs())
				if err != nil {
					return err
				}
				if current {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "Schedules are up to date.")
					return err
				}
			}

			if _, err := c.buildAndStore(ctx, manager, cfg.DataFileURL, scheduleStops(cfg), store, nil); err != nil {
				return err
			}

			configured := make(map[string]bool, len(cfg.Stops))
			for _, id := range cfg.StopIDs() {
				configured[id] = true
			}
			stored, err := store.ListStops(ctx)
			if err != nil {
				return err
			}
			for _, s := range stored {
				if configured[s.ID] {
					continue
				}
				if err := store.DeleteSchedule(ctx, s.ID); err != nil {
					return err
				}
				c.logger.Info("removed schedule of unconfigured stop", slog.String("stop_id", s.ID))
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d schedules.\n", len(cfg.Stops))
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even when the feed did not change")
	return cmd
}
