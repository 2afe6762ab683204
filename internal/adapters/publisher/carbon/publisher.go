// Package carbon adapts a graphite.Session to the agent's Publisher port,
// adding the caller-side recovery the session itself deliberately omits:
// reconnect on a dropped connection plus bounded retry with backoff.
package carbon

import (
	"context"
	"errors"
	"time"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/misc"
	"github.com/vshulcz/Carbonaut/internal/ports"
)

// Sender is the slice of graphite.Session the publisher relies on.
type Sender interface {
	Connect(ctx context.Context) error
	SendBatch(ctx context.Context, batch []domain.Sample) error
	Close() error
}

// Publisher ships samples through one Carbon session, namespacing every
// metric under a fixed prefix.
type Publisher struct {
	session Sender
	prefix  string
	backoff []time.Duration
}

var _ ports.Publisher = (*Publisher)(nil)

// New wraps an established session. The prefix must already be in valid
// dotted Carbon form (run it through graphite.SanitizePath first); pass ""
// to ship metric names as-is.
func New(session Sender, prefix string) *Publisher {
	return &Publisher{session: session, prefix: prefix, backoff: misc.DefaultBackoff}
}

// SendOne ships a single sample.
func (p *Publisher) SendOne(ctx context.Context, s domain.Sample) error {
	return p.SendBatch(ctx, []domain.Sample{s})
}

// SendBatch ships the batch as one wire message. A send that fails with a
// connection-shaped error is retried with backoff, reconnecting first when
// the session has dropped its connection.
func (p *Publisher) SendBatch(ctx context.Context, batch []domain.Sample) error {
	if len(batch) == 0 {
		return nil
	}
	prefixed := p.prefixed(batch)
	return misc.Retry(ctx, p.backoff, isRetryable, func() error {
		err := p.session.SendBatch(ctx, prefixed)
		if !errors.Is(err, domain.ErrNotConnected) {
			return err
		}
		if cerr := p.session.Connect(ctx); cerr != nil {
			return cerr
		}
		return p.session.SendBatch(ctx, prefixed)
	})
}

func (p *Publisher) prefixed(batch []domain.Sample) []domain.Sample {
	if p.prefix == "" {
		return batch
	}
	out := make([]domain.Sample, len(batch))
	for i, s := range batch {
		s.Metric = p.prefix + "." + s.Metric
		out[i] = s
	}
	return out
}

func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrTransmission) ||
		errors.Is(err, domain.ErrConnection) ||
		errors.Is(err, domain.ErrNotConnected)
}
