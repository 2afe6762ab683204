package agent

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/ports"
)

// BatchPublisher fans batches out to a bounded pool of workers so that slow
// sends never block the report ticker.
type BatchPublisher struct {
	pub     ports.Publisher
	workers int
	jobs    chan []domain.Sample
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewBatchPublisher builds a publisher pool with the given concurrency.
func NewBatchPublisher(pub ports.Publisher, workers int, log *zap.Logger) *BatchPublisher {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchPublisher{
		pub:     pub,
		workers: workers,
		jobs:    make(chan []domain.Sample, workers*2),
		log:     log,
	}
}

// Start launches the worker goroutines.
func (bp *BatchPublisher) Start(ctx context.Context) {
	for i := 0; i < bp.workers; i++ {
		bp.wg.Add(1)
		go func(id int) {
			defer bp.wg.Done()
			for batch := range bp.jobs {
				if len(batch) == 0 {
					continue
				}
				if err := bp.pub.SendBatch(ctx, batch); err != nil {
					bp.log.Warn("batch send failed, falling back to singles",
						zap.Int("worker", id), zap.Int("batch", len(batch)), zap.Error(err))
					for _, s := range batch {
						if err := bp.pub.SendOne(ctx, s); err != nil {
							bp.log.Warn("send single failed",
								zap.Int("worker", id), zap.String("metric", s.Metric), zap.Error(err))
						}
					}
				}
			}
		}(i + 1)
	}
}

// Stop closes the queue and waits for in-flight batches to finish.
func (bp *BatchPublisher) Stop() {
	close(bp.jobs)
	bp.wg.Wait()
}

// Submit enqueues one batch for delivery.
func (bp *BatchPublisher) Submit(batch []domain.Sample) {
	bp.jobs <- batch
}
