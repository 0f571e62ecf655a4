package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/cache"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/config"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/executor"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/metrics"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/observability"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/pipeline"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/server"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/storage"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool/builtins"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.NewLoader(config.NewValidator()).LoadWithDefaults(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	resultCache := cache.NewMemoryCache(cfg.Cache.SweepInterval)
	defer resultCache.Close()

	store, err := storage.Open(storage.Config{
		Path:         cfg.Storage.Path,
		MaxOpenConns: cfg.Storage.MaxConnections,
		MaxIdleConns: cfg.Storage.MaxConnections / 2,
		BusyTimeout:  cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	meterProvider, err := observability.InitMetrics(ctx, cfg.Metrics)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		recorder := observability.NewOTelRecorder(meterProvider.Meter("relay"))
		collector = metrics.NewCollector(metrics.WithRecorder(recorder))
	} else {
		collector = metrics.Disabled()
	}
	go collector.Start()
	defer collector.Stop()

	tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := observability.ShutdownTracing(shutdownCtx, tracerProvider); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	registry := tool.NewRegistry(logger)
	if err := builtins.Register(registry, builtins.Config{Store: store}); err != nil {
		return err
	}

	deps := pipeline.Deps{
		Cache:   resultCache,
		Limiter: pipeline.NewFixedWindowLimiter(),
		Logger:  logger,
	}
	if cfg.Tracing.Enabled {
		deps.Tracer = otel.Tracer("relay")
	}

	exec := executor.New(registry, collector, deps, executor.Config{
		Timeout:             cfg.Execution.Timeout,
		BatchEnabled:        cfg.Execution.BatchEnabled,
		MaxBatchSize:        cfg.Execution.MaxBatchSize,
		MaxConcurrent:       cfg.Execution.MaxConcurrent,
		GlobalRatePerSecond: cfg.Execution.GlobalRatePerSecond,
		Version:             version,
	}, logger)

	srv := server.New(cfg.Server, exec, collector, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
