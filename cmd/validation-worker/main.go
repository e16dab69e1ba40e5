package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
	"github.com/0belissk/csv-stats-pipeline/internal/db"
	"github.com/0belissk/csv-stats-pipeline/internal/lifecycle"
	"github.com/0belissk/csv-stats-pipeline/internal/logger"
	"github.com/0belissk/csv-stats-pipeline/internal/queue"
	"github.com/0belissk/csv-stats-pipeline/internal/storage"
	"github.com/0belissk/csv-stats-pipeline/internal/validation"
	"github.com/0belissk/csv-stats-pipeline/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting validation worker")

	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	repo := db.NewRepository(database)

	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}

	schema, err := validation.SchemaFromConfig(cfg.Validation)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid validation schema")
	}

	service := lifecycle.NewService(repo, s3Storage, validation.NewValidator(schema))
	validationWorker := worker.NewValidationWorker(cfg, service, redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := validationWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Validation worker failed")
		}
	}()

	if cfg.Workers.Reaper.Enabled {
		producer := queue.NewProducer(redisClient, cfg)
		reaper := worker.NewReaper(cfg, repo, producer)
		go func() {
			if err := reaper.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("Reaper stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down validation worker...")

	cancel()
	validationWorker.Stop()

	log.Info().Msg("Validation worker exited")
}
