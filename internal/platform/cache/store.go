package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futstats/campeonatos/internal/platform/resilience"
)

type entry struct {
	value    any
	deadline time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && !now.Before(e.deadline)
}

// Store is the read-through cache for league-scoped read models. Values
// enter only through GetOrLoad; a finished collection cycle drops its
// league's entries by key prefix. A non-positive TTL disables expiry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrLoad returns the cached value for key, invoking loader on a miss.
// Concurrent misses for the same key share one loader call.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.lookup(key); ok {
		return value, nil
	}

	return s.flight.Do(key, func() (any, error) {
		if value, ok := s.lookup(key); ok {
			return value, nil
		}
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.put(key, value)
		return value, nil
	})
}

// DeletePrefix drops every entry whose key starts with prefix. Expired
// entries under other prefixes are swept opportunistically.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	now := s.now()
	s.mu.Lock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) || e.expired(now) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store) lookup(key string) (any, bool) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(now) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) put(key string, value any) {
	e := entry{value: value}
	if s.ttl > 0 {
		e.deadline = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}
