// Package agent implements the metrics collection agent: it periodically
// snapshots the collector and ships batches to Carbon through a publisher.
package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/Carbonaut/internal/config"
	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/ports"
)

// Service periodically snapshots metrics and ships them to the server.
type Service struct {
	collector ports.MetricsCollector
	pub       ports.Publisher
	cfg       config.AgentConfig
	log       *zap.Logger

	sender *BatchPublisher
}

// New wires together the agent configuration, collector, and publisher.
func New(cfg config.AgentConfig, c ports.MetricsCollector, p ports.Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, collector: c, pub: p, log: log}
}

// Run starts sampling metrics, enqueues reports, and blocks until ctx is done.
func (r *Service) Run(ctx context.Context) error {
	if err := r.collector.Start(ctx, r.cfg.PollInterval); err != nil {
		return err
	}
	defer r.collector.Stop()

	r.sender = NewBatchPublisher(r.pub, r.cfg.RateLimit, r.log)
	r.sender.Start(ctx)
	defer r.sender.Stop()

	ticker := time.NewTicker(r.cfg.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.enqueueSnapshot()
		}
	}
}

func (r *Service) enqueueSnapshot() {
	g, c := r.collector.Snapshot()
	r.log.Info("reporting", zap.Int("gauges", len(g)), zap.Int("counters", len(c)))

	if len(g)+len(c) == 0 {
		return
	}
	// Timestamps stay zero here: the session stamps the whole batch with
	// one shared default at send time.
	batch := make([]domain.Sample, 0, len(g)+len(c))
	for name, val := range g {
		batch = append(batch, domain.Sample{Metric: name, Value: val})
	}
	for name, delta := range c {
		batch = append(batch, domain.Sample{Metric: name, Value: float64(delta)})
	}
	r.sender.Submit(batch)
}
