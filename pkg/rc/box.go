package rc

import (
	"io"
	"sync"
	"sync/atomic"
	"unsafe"
)

// box keeps the counter and the counted value in a single allocation.
type box[E any] struct {
	count Refcount
	value E
}

// live pins every box from allocation until its refcount drops to zero.
// A handle erased into a tagged word holds no pointer the collector can
// see, the table is what keeps such an allocation reachable. It also backs
// Live below.
var (
	live      sync.Map // uintptr -> *box[E]
	liveCount atomic.Int64
)

func newBox[E any](construct func(*E)) *box[E] {
	b := &box[E]{}
	b.count.count.Store(1)
	if construct != nil {
		construct(&b.value)
	}
	p := uintptr(unsafe.Pointer(b))
	if p&1 != 0 {
		panic("rc: allocation is not two byte aligned")
	}
	live.Store(p, b)
	liveCount.Add(1)
	return b
}

// destroy unpins the box and closes the value when it is an io.Closer.
// Must be called exactly once, by the owner that saw the refcount reach
// zero.
func (b *box[E]) destroy() error {
	live.Delete(uintptr(unsafe.Pointer(b)))
	liveCount.Add(-1)
	if closer, ok := any(&b.value).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Live returns the number of live allocations across all element types.
// Meant for tests and leak hunting.
func Live() int64 {
	return liveCount.Load()
}
