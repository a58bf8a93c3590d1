// Package memory provides the in-memory implementations of the catalog stores.
package memory

import "sync/atomic"

// Sequence issues strictly increasing identifiers starting at 1.
// Identifiers are never reused, even after deletions. The zero value is ready.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
