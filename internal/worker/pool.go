package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/0belissk/csv-stats-pipeline/internal/logger"
)

type Task func(ctx context.Context) error

// Pool fans queue messages out to a fixed set of workers. Each message is
// independent, so concurrency across messages is safe; ordering within one
// message is preserved by the task itself.
type Pool struct {
	size  int
	tasks chan Task
	wg    sync.WaitGroup
	log   zerolog.Logger
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size:  size,
		tasks: make(chan Task, size*2),
		log:   logger.WithComponent("worker.pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("size", p.size).Msg("Starting worker pool")

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
}

// Submit blocks until a worker slot frees up or the context is cancelled.
// Backpressure here keeps the queue consumer from outrunning the workers.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Worker stopping, context cancelled")
			return
		case task, ok := <-p.tasks:
			if !ok {
				log.Debug().Msg("Worker stopping, task channel closed")
				return
			}
			if err := task(ctx); err != nil {
				log.Error().Err(err).Msg("Task failed")
			}
		}
	}
}
