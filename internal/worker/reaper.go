package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
	"github.com/0belissk/csv-stats-pipeline/internal/db"
	"github.com/0belissk/csv-stats-pipeline/internal/logger"
	"github.com/0belissk/csv-stats-pipeline/internal/model"
	"github.com/0belissk/csv-stats-pipeline/internal/queue"
)

// Reaper re-drives uploads stuck in VALIDATING. An upload lands there when a
// worker dies between marking and finishing; re-enqueueing its notification
// replays the same transition sequence, which is safe because status writes
// are blind overwrites.
type Reaper struct {
	cfg      *config.Config
	repo     db.Repository
	producer *queue.Producer
	log      zerolog.Logger
}

func NewReaper(cfg *config.Config, repo db.Repository, producer *queue.Producer) *Reaper {
	return &Reaper{
		cfg:      cfg,
		repo:     repo,
		producer: producer,
		log:      logger.WithComponent("worker.reaper"),
	}
}

func (r *Reaper) Start(ctx context.Context) error {
	interval := r.cfg.Workers.Reaper.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	r.log.Info().Dur("interval", interval).Msg("Starting reaper")

	if r.cfg.Workers.Reaper.RunOnStart {
		if err := r.sweep(ctx); err != nil {
			r.log.Error().Err(err).Msg("Initial sweep failed")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Reaper context cancelled")
			return ctx.Err()
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				r.log.Error().Err(err).Msg("Sweep failed")
			}
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) error {
	stuckAfter := r.cfg.Workers.Reaper.StuckAfter
	if stuckAfter <= 0 {
		stuckAfter = 15 * time.Minute
	}
	batchSize := r.cfg.Workers.Reaper.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	uploads, err := r.repo.ListStuckValidating(ctx, stuckAfter, batchSize)
	if err != nil {
		return err
	}

	if len(uploads) == 0 {
		r.log.Debug().Msg("No stuck uploads")
		return nil
	}

	r.log.Info().Int("count", len(uploads)).Msg("Re-driving stuck uploads")

	for _, upload := range uploads {
		event := model.StorageEvent{
			Records: []model.StorageEventRecord{
				{BucketName: r.cfg.Storage.S3.Bucket, ObjectKey: upload.S3Key},
			},
		}
		if err := r.producer.EnqueueStorageEvent(ctx, event); err != nil {
			r.log.Error().Err(err).Int64("upload_id", upload.ID).Msg("Failed to re-enqueue upload")
			continue
		}
		r.log.Info().Int64("upload_id", upload.ID).Msg("Upload re-enqueued")
	}

	return nil
}
