package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/api"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/cache"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/messaging"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/services"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/store"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server that serves order reads and progress update batches`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize the dataset store
	fileStore := store.NewFileStore(cfg.Store)

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	} else {
		defer tracer.Close()
	}

	// Initialize progress event publisher
	publisher, err := messaging.NewServiceBusPublisher(cfg.Azure)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}()

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// Initialize services
	progressService := services.NewProgressService(fileStore, redisCache, publisher, metricsCollector, tracer)

	// Initialize and start the server
	server := api.NewServer(cfg, progressService, metricsCollector, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	// Shutdown the server
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
