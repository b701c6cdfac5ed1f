package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/zitmarket/internal/config"
	"github.com/efreitasn/zitmarket/internal/engine"
	"github.com/efreitasn/zitmarket/internal/handler"
	"github.com/efreitasn/zitmarket/internal/service"
	"github.com/efreitasn/zitmarket/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	once := flag.Bool("once", false, "Run a single simulation with the configured defaults, print the summary and exit")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Cancelled on shutdown; parents background runs.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sim := engine.NewSimulator(engine.Options{Logger: logger, Limits: cfg.Limits()})

	if *once {
		os.Exit(runOnce(ctx, sim, cfg, logger))
	}

	webhookSvc := service.NewWebhookService(store.NewWebhookStore(), cfg.WebhookTimeout, logger)
	simSvc := service.NewSimulationService(ctx, sim, cfg.Market(), webhookSvc, logger)

	router := handler.NewRouter(simSvc, webhookSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Graceful shutdown: stop HTTP server, then drain background runs and
	// their webhook deliveries. ctx is already done, so in-flight runs stop
	// at their next cancellation check.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	drained := make(chan struct{})
	go func() {
		simSvc.Wait()
		webhookSvc.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out waiting for background work")
	}

	logger.Info("server stopped")
}

// runOnce executes one simulation with the configured market defaults and
// writes the summary message to stdout. It returns the process exit code.
func runOnce(ctx context.Context, sim *engine.Simulator, cfg *config.Config, logger *slog.Logger) int {
	result, err := sim.Run(ctx, cfg.Market())
	if err != nil {
		logger.Error("simulation failed", slog.String("error", err.Error()))
		return 1
	}
	fmt.Fprint(os.Stdout, result.Message)
	return 0
}
