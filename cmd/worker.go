package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/services"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/store"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that audits dataset invariants and takes periodic dataset backups`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

	// Initialize the dataset store
	fileStore := store.NewFileStore(cfg.Store)

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	} else {
		defer tracer.Close()
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()

	// The worker only reads the dataset; it needs no cache or publisher.
	progressService := services.NewProgressService(fileStore, nil, nil, metricsCollector, tracer)

	// Run the invariant audit and backup jobs on their own schedules
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.AuditInterval),
			gocron.NewTask(func() {
				violations, err := progressService.AuditDataset(ctx)
				if err != nil {
					log.Error().Err(err).Msg("Dataset audit failed")
					return
				}
				if len(violations) > 0 {
					log.Warn().Int("violations", len(violations)).Msg("Dataset audit found invariant violations")
				} else {
					log.Info().Msg("Dataset audit clean")
				}
			}),
		)
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.BackupInterval),
			gocron.NewTask(func() {
				dest, err := fileStore.Backup(cfg.Store.BackupDir)
				if err != nil {
					log.Error().Err(err).Msg("Dataset backup failed")
					return
				}
				if dest == "" {
					log.Info().Msg("No dataset file yet, skipping backup")
					return
				}
				log.Info().Str("backup", dest).Msg("Dataset backup written")

				if err := fileStore.PruneBackups(cfg.Store.BackupDir, cfg.Worker.BackupKeep); err != nil {
					log.Warn().Err(err).Msg("Failed to prune old backups")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
