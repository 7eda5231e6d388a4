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

	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/baseline"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/config"
	"github.com/varshiniml7/predictive-maintenance/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "riskd: invalid configuration: %v\n", err)
		return 1
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting riskd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPC.Port,
		"environment", cfg.Environment,
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		var cfgErr *baseline.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Error("baseline configuration error", "source", cfgErr.Source, "error", cfgErr.Err)
		} else {
			logger.Error("failed to start riskd", "error", err)
		}
		return 1
	}
	defer a.close()

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      a.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := a.grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("riskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"classifier", a.adapter.Describe(),
	)

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	// Graceful shutdown.
	logger.Info("shutting down riskd")

	a.grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("riskd stopped")
	return exitCode
}

// closer releases one resource during shutdown.
type closer struct {
	fn   func(context.Context) error
	name string
}

func closeAll(logger *slog.Logger, closers []closer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(ctx); err != nil {
			logger.Warn("shutdown step failed", "step", closers[i].name, "error", err)
		}
	}
}
