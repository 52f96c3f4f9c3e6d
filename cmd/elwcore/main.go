package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wnt/elwcore/internal/amm"
	"github.com/wnt/elwcore/internal/audit"
	"github.com/wnt/elwcore/internal/clock"
	"github.com/wnt/elwcore/internal/config"
	"github.com/wnt/elwcore/internal/database"
	"github.com/wnt/elwcore/internal/logger"
	"github.com/wnt/elwcore/internal/oracle"
	"github.com/wnt/elwcore/internal/queue"
	"github.com/wnt/elwcore/internal/service"
	"github.com/wnt/elwcore/internal/worker"
)

func main() {
	// Parse command-line arguments
	envFile := flag.String("envFile", ".env", "Path to .env file")
	flag.Parse()

	// Load environment variables from the specified file
	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("No .env file found at %s, using environment variables", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		logg.Fatal().Err(err).Msg("Failed to connect to database")
	}

	queueClient, err := queue.NewClient(cfg.RedisURL, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer queueClient.Close()

	priceOracle := oracle.NewHermesClient(cfg.OracleEndpoints, logg)
	svc := service.New(db, cfg, priceOracle, amm.Passthrough{}, clock.System{}, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Bootstrap(ctx); err != nil {
		logg.Fatal().Err(err).Msg("Failed to bootstrap genesis allocation")
	}

	auditor, err := audit.New(db, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("Failed to create auditor")
	}
	go func() {
		if err := auditor.Run(ctx); err != nil && err != context.Canceled {
			logg.Error().Err(err).Msg("Auditor stopped")
		}
	}()

	// Expose Prometheus metrics
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := ":" + cfg.MetricsPort
		logg.Info().Str("addr", addr).Msg("Serving metrics")
		if err := http.ListenAndServe(addr, nil); err != nil {
			logg.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	manager := worker.NewManager(db, queueClient, svc, logg)
	if err := manager.Start(); err != nil {
		logg.Fatal().Err(err).Msg("Failed to start worker manager")
	}

	logg.Info().Msg("elwcore started")
	<-ctx.Done()

	logg.Info().Msg("Shutting down...")
	if err := manager.Stop(); err != nil {
		logg.Error().Err(err).Msg("Failed to stop worker manager")
	}
	logg.Info().Msg("Shutdown complete")
}
