// Package graphite implements a Carbon client: metric name sanitization,
// the plaintext and pickle wire encodings, and a Session owning one
// persistent TCP connection to the server.
package graphite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

// PathSample is one observation addressed by a raw, unsanitized metric path.
type PathSample struct {
	Path      []string
	Value     float64
	Timestamp int64
}

// Session owns exactly one outbound TCP connection to a Carbon endpoint and
// the wire encoder selected at construction. All writes are serialized, so
// concurrent senders sharing a Session never interleave messages on the
// wire. The Session performs no buffering, retry, or automatic reconnect:
// a failed write surfaces the error and leaves the Session disconnected,
// and recovery is the caller's job.
type Session struct {
	addr   string
	enc    Encoder
	dialer *net.Dialer
	now    func() time.Time

	mu   sync.Mutex
	conn net.Conn
}

// Option tweaks a Session at construction.
type Option func(*Session) error

// WithProtocol selects the wire encoding by name. Default is pickle.
func WithProtocol(p domain.Protocol) Option {
	return func(s *Session) error {
		enc, err := NewEncoder(p)
		if err != nil {
			return err
		}
		s.enc = enc
		return nil
	}
}

// WithEncoder installs a pre-built encoder.
func WithEncoder(e Encoder) Option {
	return func(s *Session) error {
		s.enc = e
		return nil
	}
}

// WithPort overrides the encoder's conventional port.
func WithPort(port int) Option {
	return func(s *Session) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
		host, _, err := net.SplitHostPort(s.addr)
		if err != nil {
			return err
		}
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
		return nil
	}
}

// WithDialer replaces the default dialer, e.g. to set a connect timeout.
func WithDialer(d *net.Dialer) Option {
	return func(s *Session) error {
		s.dialer = d
		return nil
	}
}

// WithClock overrides the wall clock used for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) error {
		s.now = now
		return nil
	}
}

// New builds a Session for the given server host (or host:port) without
// touching the network; call Connect before sending, or use Dial.
func New(server string, opts ...Option) (*Session, error) {
	if strings.TrimSpace(server) == "" {
		return nil, fmt.Errorf("server address is empty")
	}

	s := &Session{
		enc:    PickleEncoder{},
		dialer: &net.Dialer{},
		now:    time.Now,
	}

	host, port := server, 0
	if h, p, err := net.SplitHostPort(server); err == nil {
		host = h
		if port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("invalid port in address %q", server)
		}
	}
	s.addr = net.JoinHostPort(host, strconv.Itoa(port))

	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// No explicit port anywhere: fall back to the encoding's convention.
	if h, p, err := net.SplitHostPort(s.addr); err == nil && p == "0" {
		s.addr = net.JoinHostPort(h, strconv.Itoa(s.enc.DefaultPort()))
	}
	return s, nil
}

// Dial is New followed by an eager Connect.
func Dial(ctx context.Context, server string, opts ...Option) (*Session, error) {
	s, err := New(server, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Addr reports the resolved server address the Session dials.
func (s *Session) Addr() string { return s.addr }

// Protocol reports the active wire encoding.
func (s *Session) Protocol() domain.Protocol { return s.enc.Protocol() }

// Connect establishes the TCP connection. Calling it on an already
// connected Session is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}
	conn, err := s.dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return fmt.Errorf("connect %s: %w: %w: %w", s.addr, domain.ErrConnection, domain.ErrUnreachableHost, err)
		}
		return fmt.Errorf("connect %s: %w: %w", s.addr, domain.ErrConnection, err)
	}
	s.conn = conn
	return nil
}

// SendSingle encodes and transmits one sample. A zero timestamp is replaced
// with the current time.
func (s *Session) SendSingle(ctx context.Context, metric string, value float64, timestamp int64) error {
	return s.SendBatch(ctx, []domain.Sample{{Metric: metric, Value: value, Timestamp: timestamp}})
}

// SendPath sanitizes the raw path segments and sends a single sample.
func (s *Session) SendPath(ctx context.Context, path []string, value float64, timestamp int64) error {
	metric, err := Sanitize(path)
	if err != nil {
		return err
	}
	return s.SendSingle(ctx, metric, value, timestamp)
}

// SendBatch encodes the whole batch as one wire message and performs
// exactly one network write. Samples with a zero timestamp all share a
// single default computed once for this call; explicit timestamps are kept.
// An empty batch is a no-op.
func (s *Session) SendBatch(ctx context.Context, batch []domain.Sample) error {
	if len(batch) == 0 {
		return nil
	}
	payload, err := s.enc.Encode(stampDefaults(batch, s.now().Unix()))
	if err != nil {
		return err
	}
	return s.write(ctx, payload)
}

// SendPathBatch runs every entry through the sanitizer and delegates to
// SendBatch.
func (s *Session) SendPathBatch(ctx context.Context, batch []PathSample) error {
	samples := make([]domain.Sample, len(batch))
	for i, ps := range batch {
		metric, err := Sanitize(ps.Path)
		if err != nil {
			return err
		}
		samples[i] = domain.Sample{Metric: metric, Value: ps.Value, Timestamp: ps.Timestamp}
	}
	return s.SendBatch(ctx, samples)
}

// SendMap sends a metric->value mapping as one batch. Go maps carry no
// insertion order, so entries are sent in sorted metric order to keep the
// wire output deterministic. All entries share one default timestamp.
func (s *Session) SendMap(ctx context.Context, values map[string]float64) error {
	if len(values) == 0 {
		return nil
	}
	metrics := make([]string, 0, len(values))
	for m := range values {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	batch := make([]domain.Sample, len(metrics))
	for i, m := range metrics {
		batch[i] = domain.Sample{Metric: m, Value: values[m]}
	}
	return s.SendBatch(ctx, batch)
}

// Close tears down the connection if one is open. It is idempotent and
// never fails for an already closed or never connected Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	_ = s.conn.Close()
	s.conn = nil
	return nil
}

// stampDefaults fills zero timestamps with one shared default. The input
// slice is left untouched when every sample already carries a timestamp.
func stampDefaults(batch []domain.Sample, now int64) []domain.Sample {
	needsDefault := false
	for _, s := range batch {
		if s.Timestamp == 0 {
			needsDefault = true
			break
		}
	}
	if !needsDefault {
		return batch
	}
	out := make([]domain.Sample, len(batch))
	copy(out, batch)
	for i := range out {
		if out[i].Timestamp == 0 {
			out[i].Timestamp = now
		}
	}
	return out
}

// write performs the single network write for a send call. A failed or
// cancelled write closes the connection: the caller must Connect again.
func (s *Session) write(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("send: %w", domain.ErrNotConnected)
	}

	if err := ctx.Err(); err != nil {
		s.dropLocked()
		return fmt.Errorf("send: %w: %w", domain.ErrTransmission, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
		defer func() {
			if s.conn != nil {
				_ = s.conn.SetWriteDeadline(time.Time{})
			}
		}()
	}

	if _, err := s.conn.Write(payload); err != nil {
		s.dropLocked()
		return fmt.Errorf("write %d bytes: %w: %w", len(payload), domain.ErrTransmission, err)
	}
	return nil
}

func (s *Session) dropLocked() {
	_ = s.conn.Close()
	s.conn = nil
}
