package cache

import "time"

// Entry wraps a cached value with the time it was stored. An entry is never
// mutated in place, only replaced by a newer one.
type Entry[T any] struct {
	Value     T
	Timestamp time.Time
}

// Valid reports whether the entry is still fresh at now for the given TTL.
func (e Entry[T]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}
