package queue

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/0belissk/csv-stats-pipeline/internal/config"
	"github.com/0belissk/csv-stats-pipeline/internal/model"
)

// Producer publishes object-created notifications onto the events queue.
// This deployment's stand-in for a bucket notification subsystem: the upload
// API emits one event per stored object.
type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueStorageEvent(ctx context.Context, event model.StorageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.EventsQueue, data).Err()
}
