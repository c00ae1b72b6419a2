package expiremap

import (
	"container/list"
	"iter"
)

// All returns an iterator over live key/value pairs in insertion order.
//
// Expired entries the iterator passes are removed and skipped. Breaking out of
// the loop stops the scan, so entries after that point are left untouched.
// The loop body may delete any keys, including the current one; keys stored
// during the loop are appended and visited.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.walk(func(e *entry[K, V]) bool {
			return yield(e.key, e.value)
		})
	}
}

// Keys returns an iterator over live keys in insertion order. It evicts like All.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.walk(func(e *entry[K, V]) bool {
			return yield(e.key)
		})
	}
}

// Values returns an iterator over live values in insertion order. It evicts like All.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.walk(func(e *entry[K, V]) bool {
			return yield(e.value)
		})
	}
}

// ForEach calls fn for every live entry in insertion order, removing each
// expired entry it passes.
func (m *Map[K, V]) ForEach(fn func(value V, key K)) {
	m.walk(func(e *entry[K, V]) bool {
		fn(e.value, e.key)
		return true
	})
}

// walk visits live entries front to back. The clock is read once per step
// because entries carry independent deadlines. visit returning false stops it.
func (m *Map[K, V]) walk(visit func(e *entry[K, V]) bool) {
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry[K, V])
		if e.expired(m.clock.Now()) {
			m.remove(el)
			el = next
			continue
		}
		if !visit(e) {
			return
		}

		// visit may have deleted el and any number of its successors.
		switch {
		case m.linked(el):
			el = el.Next()
		case next != nil && m.linked(next):
			el = next
		default:
			el = m.after(e.seq)
		}
	}
}

// after returns the first stored element inserted later than seq, or nil.
// List order matches seq order, so the scan stops at the first hit.
func (m *Map[K, V]) after(seq uint64) *list.Element {
	for el := m.order.Front(); el != nil; el = el.Next() {
		if el.Value.(*entry[K, V]).seq > seq {
			return el
		}
	}
	return nil
}
