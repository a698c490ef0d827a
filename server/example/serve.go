package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/server"
	"github.com/cyp0633/calview/server/auth/memory"
	storemem "github.com/cyp0633/calview/server/storage/memory"
)

const shutdownTimeout = 10 * time.Second

// app is the assembled HTTP handler and the resources it owns.
type app struct {
	handler http.Handler
	engine  *recurrence.Engine
}

func (a *app) Close() {
	a.engine.Close()
}

// buildApp wires storage, engine, auth and metrics from cfg. The event API is
// mounted at "/" and the Prometheus exposition at GET /metrics.
func buildApp(cfg *Config, logger *slog.Logger, reg *prometheus.Registry) (*app, error) {
	store := storemem.New()
	if cfg.SeedFile != "" {
		events, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(events...); err != nil {
			return nil, err
		}
		logger.Info("seed events loaded", "file", cfg.SeedFile, "count", len(events))
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	engine := recurrence.NewEngineWithConfig(engineCfg)
	logger.Info("recurrence engine ready",
		"cache", engine.Config().CacheEnabled,
		"cache_ttl", engine.Config().CacheConfig.TTL,
		"cache_max_entries", engine.Config().CacheConfig.MaxEntries)

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithEngine(engine),
	}

	if len(cfg.Users) > 0 {
		users := memory.New(memory.WithLogger(logger))
		for _, u := range cfg.Users {
			if err := users.AddUser(u); err != nil {
				engine.Close()
				return nil, fmt.Errorf("user %q: %w", u.Username, err)
			}
		}
		opts = append(opts, server.WithAuthenticator(users, "", cfg.Public...))
	}

	mux := http.NewServeMux()
	if cfg.Metrics {
		metrics, err := server.NewMetrics("calview", reg)
		if err != nil {
			engine.Close()
			return nil, err
		}
		opts = append(opts, server.WithMetrics(metrics))
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	srv, err := server.New(store, opts...)
	if err != nil {
		engine.Close()
		return nil, err
	}
	mux.Handle("/", srv)

	return &app{handler: mux, engine: engine}, nil
}

func newServeCmd() *cobra.Command {
	var configPath, listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the event API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			logger := newLogger(os.Stderr, cfg.Level())
			slog.SetDefault(logger)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			a, err := buildApp(cfg, logger, reg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Listen, a.handler, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides the config")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting event server", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
