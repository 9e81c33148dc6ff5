package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"transpors.dev/internal/appconf"
	"transpors.dev/internal/config"
	"transpors.dev/internal/logging"
)

// cli carries what every command needs. Everything past the flags is filled
// in by the root command's PersistentPreRunE.
type cli struct {
	logLevel  string
	logFormat string
	now       func() time.Time

	logger *slog.Logger
	paths  config.Paths
	env    appconf.Environment
}

func newRootCmd() *cobra.Command {
	return (&cli{now: time.Now}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transpors",
		Short: "Upcoming departures from your GTFS stops",
		Long: `transpors builds the departure schedule of a few chosen stops from a
GTFS feed and prints what leaves today. Run "transpors setup" to pick the
feed and the stops; afterwards "transpors" on its own prints the timetable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "Log format (text|json)")

	// Without a subcommand transpors prints departures.
	departuresCmd := c.departuresCmd()
	rootCmd.Flags().AddFlagSet(departuresCmd.Flags())
	rootCmd.RunE = departuresCmd.RunE

	rootCmd.AddCommand(
		departuresCmd,
		c.setupCmd(),
		c.stopsCmd(),
		c.rebuildCmd(),
		c.serveCmd(),
		c.exportCmd(),
	)

	return rootCmd
}

func (c *cli) init() error {
	config.LoadEnv()

	logger, err := logging.New(os.Stderr, c.logFormat, c.logLevel)
	if err != nil {
		return err
	}
	c.logger = logger
	slog.SetDefault(logger)

	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	c.paths = paths
	c.env = appconf.EnvFlagToEnvironment(os.Getenv(config.EnvEnvironment))

	return nil
}
