package ports

import (
	"context"
	"time"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

// MetricsCollector samples metric values in the background and exposes the
// latest snapshot.
type MetricsCollector interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop()
	Snapshot() (gauges map[string]float64, counters map[string]int64)
}

// Publisher ships samples to the metrics server.
type Publisher interface {
	SendBatch(ctx context.Context, batch []domain.Sample) error
	SendOne(ctx context.Context, s domain.Sample) error
}
