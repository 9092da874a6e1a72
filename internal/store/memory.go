// internal/store/memory.go
//
// In-memory implementation of the round.Store interface.
// This is the live round store: every created round lives here between
// creation and reveal, and nowhere else.
//
// Characteristics:
//   - Stores round.Round records keyed by id in a map.
//   - Concurrency-safe via a single Mutex; every operation, including the
//     take, runs as one critical section, which is what makes the consume
//     exactly-once under concurrent reveals.
//   - Records older than the TTL are unreachable even before a sweep runs:
//     TakeIfPresent checks age itself.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/wavelength-party/go-server/internal/round"
)

// DefaultTTL bounds how long an unrevealed round stays reachable.
const DefaultTTL = 10 * time.Minute

// memory is a mutex-guarded map-based round.Store implementation.
type memory struct {
	mu     sync.Mutex
	ttl    time.Duration
	rounds map[string]round.Round
}

// NewMemoryStore constructs an in-memory round.Store.
// A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) round.Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memory{ttl: ttl, rounds: make(map[string]round.Round)}
}

// Put inserts the record. Ids are crypto-random, so an existing key would
// be a caller bug; the map write is unconditional.
func (m *memory) Put(ctx context.Context, r round.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r
	return nil
}

// TakeIfPresent removes and returns the record for id in one critical
// section. Of N concurrent callers with the same id, exactly one gets
// ok=true. A record past its TTL is deleted and reported absent.
func (m *memory) TakeIfPresent(ctx context.Context, id string, now time.Time) (round.Round, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rounds[id]
	if !ok {
		return round.Round{}, false, nil
	}
	delete(m.rounds, id)
	if now.Sub(r.CreatedAt) > m.ttl {
		return round.Round{}, false, nil
	}
	return r, true, nil
}

// SweepExpired drops every record older than the TTL.
func (m *memory) SweepExpired(ctx context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rounds {
		if now.Sub(r.CreatedAt) > m.ttl {
			delete(m.rounds, id)
		}
	}
	return nil
}
