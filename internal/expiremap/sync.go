package expiremap

import (
	"sync"
	"time"

	"github.com/samber/mo"
)

// Synced is a Map guarded by a lock, for sharing between goroutines.
//
// Every read can delete (lazy expiry), so most methods take the write lock.
// Get and Has use an "optimistic read then confirm under write lock" pattern:
//  1. RLock to find the entry and check expiry.
//  2. If present and live, copy the value and return.
//  3. If expired, Lock and re-check before evicting.
type Synced[K comparable, V any] struct {
	mu sync.RWMutex
	m  *Map[K, V]
}

// NewSynced constructs an empty Synced map.
func NewSynced[K comparable, V any](opts ...Option) *Synced[K, V] {
	return &Synced[K, V]{m: New[K, V](opts...)}
}

// Get returns the value stored under key, evicting it if expired.
func (s *Synced[K, V]) Get(key K) (V, bool) {
	now := s.m.clock.Now()

	s.mu.RLock()
	el, ok := s.m.items[key]
	if !ok {
		s.mu.RUnlock()
		var zero V
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if !e.expired(now) {
		v := e.value
		s.mu.RUnlock()
		return v, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check because the key could have been replaced between locks.
	e, ok = s.m.lookup(key, now)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether key holds a live entry.
func (s *Synced[K, V]) Has(key K) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores value under key using the default TTL.
func (s *Synced[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Set(key, value)
}

// SetTTL stores value under key, expiring ttl from now. Negative ttl is treated as zero.
func (s *Synced[K, V]) SetTTL(key K, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.SetTTL(key, value, ttl)
}

// SetNoExpiry stores value under key with no deadline.
func (s *Synced[K, V]) SetNoExpiry(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.SetNoExpiry(key, value)
}

// Delete removes key, expired or not, and reports whether it was stored.
func (s *Synced[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Delete(key)
}

// Clear removes every entry.
func (s *Synced[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Clear()
}

// Len returns the raw entry count, expired entries included.
func (s *Synced[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Len()
}

// LiveLen removes every expired entry and returns how many remain.
func (s *Synced[K, V]) LiveLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.LiveLen()
}

// Purge removes every expired entry and returns how many were removed.
func (s *Synced[K, V]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Purge()
}

// DefaultTTL returns the lifetime applied by Set, or None for no expiry.
func (s *Synced[K, V]) DefaultTTL() mo.Option[time.Duration] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.DefaultTTL()
}

// SetDefaultTTL replaces the default lifetime. Stored entries keep their deadlines.
func (s *Synced[K, V]) SetDefaultTTL(d mo.Option[time.Duration]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.SetDefaultTTL(d)
}

// Range calls fn for each live entry in insertion order while holding the
// lock. fn must not call back into s.
func (s *Synced[K, V]) Range(fn func(key K, value V) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.m.All() {
		if !fn(k, v) {
			return
		}
	}
}

// Keys returns a copy of the live keys in insertion order.
func (s *Synced[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]K, 0, s.m.Len())
	for k := range s.m.Keys() {
		out = append(out, k)
	}
	return out
}

// Snapshot returns a copy of the live entries in insertion order.
func (s *Synced[K, V]) Snapshot() []Pair[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Pair[K, V], 0, s.m.Len())
	for k, v := range s.m.All() {
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return out
}
