package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"transpors.dev/internal/app"
	"transpors.dev/internal/appconf"
	"transpors.dev/internal/logging"
	"transpors.dev/internal/metrics"
	"transpors.dev/internal/restapi"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var (
		port      int
		rateLimit int
		apiKeys   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the departures of the configured stops over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := c.paths.Load()
			if err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer logging.HandleDeferredError(&err, store.Close, c.logger, "close_schedule_store")

			collector := metrics.NewCollector()
			tables, err := c.loadTimetables(ctx, cfg, store, collector)
			if err != nil {
				return err
			}

			application := &app.Application{
				Config: appconf.Config{
					Port:      port,
					Env:       c.env,
					RateLimit: rateLimit,
					ApiKeys:   splitAPIKeys(apiKeys),
				},
				Logger:     c.logger,
				Timetables: tables,
				Metrics:    collector,
				Store:      store,
				Clock:      c.now,
			}

			return serve(ctx, application)
		},
	}

	cmd.Flags().IntVar(&port, "port", 4000, "API server port")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 100, "Requests per second per client (0 disables limiting)")
	cmd.Flags().StringVar(&apiKeys, "api-keys", "", "Comma separated API keys; when empty no key is required")
	return cmd
}

func splitAPIKeys(flag string) []string {
	var keys []string
	for _, key := range strings.Split(flag, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, application *app.Application) error {
	api := restapi.NewRestAPI(application)
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(application.Logger.Handler(), slog.LevelError),
	}

	errs := make(chan error, 1)
	go func() {
		application.Logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", application.Config.Env.String()),
			slog.Int("stops_count", len(application.Timetables.Stops())))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	application.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
