package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/syntrixbase/esreport/internal/gateway"
	"github.com/syntrixbase/esreport/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
}

// serve blocks until ctx is canceled or the listener fails, then shuts the server down.
func serve(ctx context.Context, a *app) error {
	srv := server.New(a.cfg.Server, slog.Default())
	gateway.NewServer(a.reports, a.cfg.Gateway).RegisterRoutes(srv.HTTPMux())

	slog.Info("Starting esreport",
		"version", version,
		"search", a.cfg.Search.URL,
		"port", a.cfg.Server.HTTPPort,
	)

	runErr := srv.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("server error: %w", runErr)
	}
	slog.Info("esreport stopped")
	return nil
}
