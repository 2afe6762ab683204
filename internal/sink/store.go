// Package sink implements a local Carbon-compatible receiver used for
// development and testing: it accepts both wire encodings over TCP, keeps
// the last observation per metric in memory, and serves an HTTP inspection
// API. Nothing is aggregated or persisted.
package sink

import (
	"sort"
	"sync"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

// Store keeps the most recent sample per metric plus a receive counter.
type Store struct {
	mu       sync.RWMutex
	last     map[string]domain.Sample
	received int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{last: make(map[string]domain.Sample)}
}

// Add records the samples, overwriting earlier observations per metric.
func (s *Store) Add(samples ...domain.Sample) {
	if len(samples) == 0 {
		return
	}
	s.mu.Lock()
	for _, smp := range samples {
		s.last[smp.Metric] = smp
		s.received++
	}
	s.mu.Unlock()
}

// Get returns the last sample for the metric.
func (s *Store) Get(metric string) (domain.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	smp, ok := s.last[metric]
	return smp, ok
}

// List returns all last samples sorted by metric name.
func (s *Store) List() []domain.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sample, 0, len(s.last))
	for _, smp := range s.last {
		out = append(out, smp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

// Received reports how many samples arrived since startup.
func (s *Store) Received() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.received
}
