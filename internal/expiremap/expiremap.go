package expiremap

import (
	"container/list"
	"time"

	"github.com/samber/mo"
)

// Pair is one key/value used to seed a Map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map with optional per-entry expiry.
//
// The core design is intentionally explicit:
// a Go map gives O(1) key lookup, and a doubly-linked list keeps insertion order
// (Go maps have none).
//
// Expired entries are never returned. They stay in memory until an operation
// touches them, so Len may count entries that LiveLen would drop.
type Map[K comparable, V any] struct {
	items map[K]*list.Element
	order *list.List // Front = oldest insertion, Back = newest

	defaultTTL mo.Option[time.Duration]
	clock      Clock
	seq        uint64 // last insertion number handed out
}

// entry is the value stored in the order list elements.
// We keep the key here because iteration starts from list nodes.
//
// hasExpiry=false means "never expires". seq grows with insertion order and
// survives overwrites, so a walk can find its place after its node is removed.
type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	hasExpiry bool
	seq       uint64
}

// expired reports whether the deadline has been reached. It is the only place
// the expiry rule is written down.
func (e *entry[K, V]) expired(now time.Time) bool {
	return e.hasExpiry && !now.Before(e.expiresAt)
}

// New constructs an empty Map.
//
// New never returns a nil Map.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	o := buildOptions(opts)
	return &Map[K, V]{
		items:      make(map[K]*list.Element),
		order:      list.New(),
		defaultTTL: o.defaultTTL,
		clock:      o.clock,
	}
}

// NewFrom constructs a Map seeded with pairs, in order. Each pair is stored
// with Set, so it receives the default TTL.
func NewFrom[K comparable, V any](pairs []Pair[K, V], opts ...Option) *Map[K, V] {
	m := New[K, V](opts...)
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// DefaultTTL returns the lifetime applied by Set, or None when entries stored
// by Set never expire.
func (m *Map[K, V]) DefaultTTL() mo.Option[time.Duration] {
	return m.defaultTTL
}

// SetDefaultTTL replaces the default lifetime. Negative values are clamped to
// zero. Entries already stored keep their deadlines.
func (m *Map[K, V]) SetDefaultTTL(d mo.Option[time.Duration]) {
	m.defaultTTL = clampTTL(d)
}

// Set stores value under key using the default TTL.
//
// Overwriting a key replaces both value and deadline but keeps the key's
// position in iteration order.
func (m *Map[K, V]) Set(key K, value V) *Map[K, V] {
	return m.set(key, value, m.defaultTTL)
}

// SetTTL stores value under key, expiring ttl from now regardless of the
// default. A negative ttl is treated as zero: the entry is already expired.
func (m *Map[K, V]) SetTTL(key K, value V, ttl time.Duration) *Map[K, V] {
	return m.set(key, value, clampTTL(mo.Some(ttl)))
}

// SetNoExpiry stores value under key with no deadline, overriding the default.
func (m *Map[K, V]) SetNoExpiry(key K, value V) *Map[K, V] {
	return m.set(key, value, mo.None[time.Duration]())
}

func (m *Map[K, V]) set(key K, value V, ttl mo.Option[time.Duration]) *Map[K, V] {
	// Compute expiry once. Using hasExpiry avoids comparing against the zero time.
	var expiresAt time.Time
	d, hasExpiry := ttl.Get()
	if hasExpiry {
		expiresAt = m.clock.Now().Add(d)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.hasExpiry = hasExpiry
		e.expiresAt = expiresAt
		return m
	}

	m.seq++
	m.items[key] = m.order.PushBack(&entry[K, V]{
		key:       key,
		value:     value,
		hasExpiry: hasExpiry,
		expiresAt: expiresAt,
		seq:       m.seq,
	})
	return m
}

// Get returns the value stored under key.
//
// It performs lazy expiration: an expired key is removed and reported missing.
func (m *Map[K, V]) Get(key K) (V, bool) {
	e, ok := m.lookup(key, m.clock.Now())
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether key holds a live entry. It evicts exactly like Get.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Deadline returns when key expires. The zero time means it never does.
// ok is false if key is missing or expired; an expired key is removed.
func (m *Map[K, V]) Deadline(key K) (deadline time.Time, ok bool) {
	e, ok := m.lookup(key, m.clock.Now())
	if !ok {
		return time.Time{}, false
	}
	return e.expiresAt, true
}

// Delete removes key whether or not it has expired and reports whether it was
// stored.
func (m *Map[K, V]) Delete(key K) bool {
	el, ok := m.items[key]
	if !ok {
		return false
	}
	m.remove(el)
	return true
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.items = make(map[K]*list.Element)
	m.order.Init()
}

// Len returns the number of stored entries.
//
// Note: Len includes entries that have expired but haven't been touched yet.
// Use LiveLen for the number of entries a reader could actually observe.
func (m *Map[K, V]) Len() int {
	return len(m.items)
}

// LiveLen removes every expired entry and returns how many remain.
func (m *Map[K, V]) LiveLen() int {
	m.Purge()
	return len(m.items)
}

// lookup finds key and evicts it if its deadline has passed. Every reader goes
// through here.
func (m *Map[K, V]) lookup(key K, now time.Time) (*entry[K, V], bool) {
	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry[K, V])
	if e.expired(now) {
		m.remove(el)
		return nil, false
	}
	return e, true
}

func (m *Map[K, V]) remove(el *list.Element) {
	e := el.Value.(*entry[K, V])
	delete(m.items, e.key)
	m.order.Remove(el)
}

// linked reports whether el is still the stored element for its key.
func (m *Map[K, V]) linked(el *list.Element) bool {
	e := el.Value.(*entry[K, V])
	cur, ok := m.items[e.key]
	return ok && cur == el
}
