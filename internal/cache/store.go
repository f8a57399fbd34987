// Package cache holds the TTL store and the typed entity cache that every
// aioctx service reads through before touching the aio CLI.
package cache

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultJitter is the fraction by which a nominal TTL is randomly
// perturbed on each write. Spreading expiries prevents many entries that
// were populated together from all expiring in the same instant and
// triggering a burst of simultaneous CLI calls.
const DefaultJitter = 0.10

type entry struct {
	value   any
	expires time.Time // zero means the entry never expires
}

// Store is a mutex-guarded key-value store with jittered TTL expiry.
// Eviction is lazy: an expired entry is removed the next time it is read.
// There is no background sweep.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	jitter  float64

	// Overridable for tests.
	now  func() time.Time
	rand func() float64
}

// NewStore returns an empty store with the default jitter fraction.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		jitter:  DefaultJitter,
		now:     time.Now,
		rand:    rand.Float64,
	}
}

// Set stores value under key. A positive ttl is jittered to
// ttl*(1±jitter), drawn independently per call. A non-positive ttl stores
// the value without expiry; such entries are only removed by Clear,
// ClearPrefix, or ClearAll.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		factor := 1 + s.jitter*(2*s.rand()-1)
		e.expires = s.now().Add(time.Duration(float64(ttl) * factor))
	}
	s.entries[key] = e
}

// Get returns the live value for key. An entry past its expiry is treated
// as absent and evicted.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Clear removes key unconditionally.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearPrefix removes every entry whose key starts with prefix.
func (s *Store) ClearPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// ClearAll removes every entry.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len reports the number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// expiresAt exposes an entry's deadline for expiry tests.
func (s *Store) expiresAt(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e.expires, ok
}
