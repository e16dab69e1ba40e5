package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
	"github.com/0belissk/csv-stats-pipeline/internal/lifecycle"
	"github.com/0belissk/csv-stats-pipeline/internal/logger"
	"github.com/0belissk/csv-stats-pipeline/internal/model"
	"github.com/0belissk/csv-stats-pipeline/internal/queue"
)

// ValidationWorker consumes object-created notifications and drives the
// upload lifecycle for each record in the event.
type ValidationWorker struct {
	cfg      *config.Config
	service  *lifecycle.Service
	consumer *queue.Consumer
	pool     *Pool
	log      zerolog.Logger
}

func NewValidationWorker(
	cfg *config.Config,
	service *lifecycle.Service,
	redisClient *queue.RedisClient,
) *ValidationWorker {
	return &ValidationWorker{
		cfg:      cfg,
		service:  service,
		consumer: queue.NewConsumer(redisClient, cfg),
		pool:     NewPool(cfg.Workers.Validation.Count),
		log:      logger.WithComponent("worker.validation"),
	}
}

func (w *ValidationWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting validation worker")

	w.pool.Start(ctx)

	return w.consumer.ConsumeStorageEvents(ctx, w.handleMessage)
}

func (w *ValidationWorker) Stop() {
	w.log.Info().Msg("Stopping validation worker")
	w.pool.Stop()
}

// handleMessage decodes a storage event and hands it to the pool. Records
// within one event are processed sequentially by ProcessBatch; a malformed
// message is returned to the consumer, which routes it to the DLQ.
func (w *ValidationWorker) handleMessage(ctx context.Context, data []byte) error {
	var event model.StorageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal storage event")
		return err
	}

	if len(event.Records) == 0 {
		w.log.Warn().Msg("Received storage event with no records")
		return nil
	}

	w.log.Info().Int("record_count", len(event.Records)).Msg("Processing storage event")

	return w.pool.Submit(ctx, func(ctx context.Context) error {
		return w.service.ProcessBatch(ctx, event.Records)
	})
}
