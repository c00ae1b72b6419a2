// Package expiremap implements an insertion-ordered, in-memory map whose
// entries may carry a time-to-live.
//
// Goals for this package:
//   - Make the core data structures explicit (map index + doubly-linked list)
//   - Keep ordinary map semantics: Get/Set/Has/Delete/Clear and ordered iteration
//   - Expire lazily: whichever operation next touches an expired entry removes it
//   - Own no goroutines or timers, so there is nothing to start or stop
//
// Map is not safe for concurrent use. Wrap it in Synced when several
// goroutines share one instance.
package expiremap
