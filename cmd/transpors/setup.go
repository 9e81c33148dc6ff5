package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"transpors.dev/internal/config"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/ui"
)

func (c *cli) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Choose the GTFS feed and the stops to follow",
		Long: `Setup asks for a GTFS data file (a URL or a local path), copies it into the
configuration directory, lets you search for stops and builds their
schedules. Running it again replaces the previous configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.runSetup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d stops to %s\n", len(cfg.Stops), c.paths.File())
			return nil
		},
	}
}

func (c *cli) runSetup(ctx context.Context) (*config.AppConfig, error) {
	wizard := &ui.Wizard{Paths: c.paths, Logger: c.logger}
	result, err := wizard.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.finishSetup(ctx, result); err != nil {
		return nil, err
	}
	return result.Config, nil
}

// finishSetup stores the schedules of the chosen stops, then the config.
// A feed the stops cannot be built from leaves the old config untouched.
func (c *cli) finishSetup(ctx context.Context, result *ui.SetupResult) (err error) {
	if err := config.Validate(result.Config); err != nil {
		return err
	}

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, store.Close, c.logger, "close_schedule_store")

	if _, err := c.buildAndStore(ctx, result.Manager, result.Config.DataFileURL, scheduleStops(result.Config), store, nil); err != nil {
		return err
	}

	return c.paths.Save(result.Config)
}
