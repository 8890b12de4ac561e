package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/syntrixbase/esreport/internal/config"
	"github.com/syntrixbase/esreport/internal/logging"
	"github.com/syntrixbase/esreport/internal/report"
	"github.com/syntrixbase/esreport/internal/search"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configDir string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "esreport",
		Short:         "Tabular reports from search backend queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", config.DefaultDir, "directory holding config.yml and config.local.yml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newSavedQueryCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadConfig reads the configuration and applies command line overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		cfg.Logging.Console.Level = o.logLevel
		cfg.Logging.File.Level = o.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// app holds the wired report pipeline shared by every command.
type app struct {
	cfg     *config.Config
	client  *search.Client
	cache   *search.CachedResolver
	reports *report.Service
}

func newApp(cfg *config.Config) (*app, error) {
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, err
	}
	logger := slog.Default()

	client, err := search.NewClient(cfg.Search, logger)
	if err != nil {
		_ = logging.Shutdown()
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	a := &app{cfg: cfg, client: client}

	var resolver search.SavedQueryResolver = client
	if cfg.Search.SavedQueryCacheTTL > 0 {
		a.cache, err = search.NewCachedResolver(client, cfg.Search.SavedQueryCacheTTL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create saved query cache: %w", err)
		}
		resolver = a.cache
	}

	a.reports, err = report.NewService(client, resolver, cfg.Report, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create report service: %w", err)
	}
	return a, nil
}

func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if err := a.client.Close(); err != nil {
		slog.Warn("Failed to close search client", "error", err)
	}
	_ = logging.Shutdown()
}
