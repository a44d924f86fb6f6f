package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"parley-hq/parley/pkg/cli"
	"parley-hq/parley/pkg/config"
	"parley-hq/parley/pkg/providers"
	"parley-hq/parley/pkg/providers/openai"
	"parley-hq/parley/pkg/server"
	"parley-hq/parley/pkg/session"
	"parley-hq/parley/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Parley session server",
	Long: `Start the Parley session server with the specified configuration.

The server listens on the configured address and serves the turn-taking
endpoint backed by the configured completion provider.

Examples:
  # Start with default config
  parley run

  # Start with custom config
  parley run --config /etc/parley/config.yaml

  # Override listen address
  parley run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger := newLogger(&cfg.Telemetry.Logging)
	slog.SetDefault(logger)

	slog.Info("starting parley",
		"version", Version,
		"config", cfgFile,
	)

	// Completion provider
	provider, err := openai.NewProvider(providers.ProviderConfig{
		Name:                cfg.Provider.Type,
		Type:                cfg.Provider.Type,
		BaseURL:             cfg.Provider.BaseURL,
		APIKey:              cfg.Provider.APIKey,
		Model:               cfg.Provider.Model,
		Timeout:             cfg.Provider.Timeout,
		MaxIdleConns:        cfg.Provider.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Provider.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Provider.IdleConnTimeout,
	})
	if err != nil {
		return cli.NewConfigError("provider", fmt.Sprintf("failed to initialize provider: %v", err))
	}
	defer provider.Close()

	// Metrics
	var sessionMetrics *metrics.SessionMetrics
	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		sessionMetrics = metrics.NewSessionMetrics(&cfg.Telemetry.Metrics, registry)
		metricsHandler = metrics.Handler(registry)
	}

	// Session layer
	store := session.NewStore()

	opts := []session.Option{}
	if cfg.Session.DefaultPersona != "" {
		opts = append(opts, session.WithDefaultPersona(cfg.Session.DefaultPersona))
	}
	if sessionMetrics != nil {
		opts = append(opts, session.WithMetrics(sessionMetrics))
	}
	orch := session.NewOrchestrator(store, provider, cfg.Provider.Model, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Idle-conversation eviction
	evictor := session.NewEvictor(store, session.EvictionConfig{
		Schedule: cfg.Session.Eviction.Schedule,
		MaxIdle:  cfg.Session.Eviction.MaxIdle,
	}, metricsOrNil(sessionMetrics))
	if err := evictor.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer evictor.Stop()

	// Config hot reload for session defaults
	watcher, err := config.NewWatcher(cfgFile, logger)
	if err != nil {
		slog.Warn("config watcher unavailable, hot reload disabled", "error", err)
	} else {
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				orch.SetDefaultPersona(next.Session.DefaultPersona)
			})
			if err != nil {
				slog.Error("config watcher stopped", "error", err)
			}
		}()
	}

	// HTTP server
	srv := server.NewServer(&cfg.Server, orch, provider, metricsHandler, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Printf("Parley %s listening on %s\n", Version, cfg.Server.ListenAddress)
	fmt.Println("Press Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		cancel()

		if err := srv.Shutdown(context.Background()); err != nil {
			return cli.NewCommandError("run", err)
		}
		return nil
	}
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg *config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// metricsOrNil converts a possibly-nil concrete sink to the Metrics
// interface without producing a typed nil.
func metricsOrNil(m *metrics.SessionMetrics) session.Metrics {
	if m == nil {
		return nil
	}
	return m
}
