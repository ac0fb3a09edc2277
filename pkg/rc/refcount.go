package rc

import (
	"sync/atomic"
)

// Refcount is an atomic reference counter. The zero value holds no
// references, a fresh allocation starts it at one.
type Refcount struct {
	count atomic.Int64
}

// Inc adds one reference.
func (refcount *Refcount) Inc() {
	refcount.count.Add(1)
}

// IsOne reports sole ownership.
func (refcount *Refcount) IsOne() bool {
	return refcount.count.Load() == 1
}

// Dec drops one reference and reports whether the count reached zero, in
// which case the caller must destroy the counted object and stop using the
// counter.
//
// Pass expectOne when sole ownership is likely: a counter observed at one
// belongs to the caller alone, so the decrement itself can be skipped.
func (refcount *Refcount) Dec(expectOne bool) bool {
	if expectOne && refcount.IsOne() {
		return true
	}
	n := refcount.count.Add(-1)
	if n < 0 {
		panic("rc: refcount underflow")
	}
	return n == 0
}
