package expiremap

// Purge removes every expired entry and returns how many were removed.
//
// Nothing calls Purge on a schedule. It runs when the caller asks, and LiveLen
// uses it to count only live entries. The scan is O(n); a min-heap of
// deadlines would make it cheaper at the price of extra bookkeeping on Set.
func (m *Map[K, V]) Purge() int {
	now := m.clock.Now()
	removed := 0
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*entry[K, V]).expired(now) {
			m.remove(el)
			removed++
		}
		el = next
	}
	return removed
}
