package rc

import (
	"unsafe"

	"github.com/brickingsoft/errors"
)

var (
	ErrReleased = errors.Define("rc: handle already released")
)

func IsReleased(err error) bool {
	return errors.Is(err, ErrReleased)
}

// Ref is the unique, mutable handle to a refcounted allocation of E.
// It is move only: Share, Word and Close all consume the receiver.
// The zero value is a released handle.
type Ref[E any] struct {
	b *box[E]
}

// Shared is the shared, read only handle to a refcounted allocation of E.
// Alias it with Clone, release it with Close. Go has no copy constructors,
// so plain struct assignment of a handle does not count a reference and is
// misuse. The zero value is a released handle.
type Shared[E any] struct {
	b *box[E]
}

// Handles must stay one pointer wide, the tagged word erasure depends on it.
var (
	_ [unsafe.Sizeof(Ref[int]{}) - unsafe.Sizeof(uintptr(0))]struct{}
	_ [unsafe.Sizeof(uintptr(0)) - unsafe.Sizeof(Ref[int]{})]struct{}
	_ [unsafe.Sizeof(Shared[int]{}) - unsafe.Sizeof(uintptr(0))]struct{}
	_ [unsafe.Sizeof(uintptr(0)) - unsafe.Sizeof(Shared[int]{})]struct{}
)

// New heap allocates value with a refcount of one.
func New[E any](value E) Ref[E] {
	return Make(func(p *E) {
		*p = value
	})
}

// Make heap allocates a zero E and lets construct build it in place.
// A nil construct leaves the zero value.
func Make[E any](construct func(*E)) Ref[E] {
	return Ref[E]{b: newBox(construct)}
}

func (ref *Ref[E]) Valid() bool {
	return ref.b != nil
}

// Value returns the owned value. Panics on a released handle.
func (ref *Ref[E]) Value() *E {
	if ref.b == nil {
		panic("rc: use of released handle")
	}
	return &ref.b.value
}

// Share converts unique ownership into shared read only ownership. O(1), no
// copy. The receiver is left released.
func (ref *Ref[E]) Share() Shared[E] {
	if ref.b == nil {
		panic("rc: use of released handle")
	}
	b := ref.b
	ref.b = nil
	return Shared[E]{b: b}
}

// Close destroys the allocation. Returns ErrReleased when the handle was
// already consumed, otherwise the value's own Close error when E is an
// io.Closer.
func (ref *Ref[E]) Close() error {
	if ref.b == nil {
		return ErrReleased
	}
	b := ref.b
	ref.b = nil
	if !b.count.IsOne() {
		panic("rc: unique handle over a shared refcount")
	}
	return b.destroy()
}

func (shared *Shared[E]) Valid() bool {
	return shared.b != nil
}

// Value returns the shared value. The pointee is read only by contract.
// Panics on a released handle.
func (shared *Shared[E]) Value() *E {
	if shared.b == nil {
		panic("rc: use of released handle")
	}
	return &shared.b.value
}

// Clone adds one reference to the same allocation.
func (shared *Shared[E]) Clone() Shared[E] {
	if shared.b == nil {
		panic("rc: use of released handle")
	}
	shared.b.count.Inc()
	return Shared[E]{b: shared.b}
}

// Close drops one reference and destroys the allocation when it was the
// last one.
func (shared *Shared[E]) Close() error {
	if shared.b == nil {
		return ErrReleased
	}
	b := shared.b
	shared.b = nil
	if b.count.Dec(false) {
		return b.destroy()
	}
	return nil
}

// AttemptToClaim converts the shared handle back into a unique one when the
// refcount proves sole ownership. On success the receiver is consumed, on
// failure it is left untouched and ok is false.
//
// The decision is a single refcount read: once the count is one, the caller
// holds the only handle, so nobody else can add references concurrently.
// The caller must not race the call against other uses of the same handle
// value.
func (shared *Shared[E]) AttemptToClaim() (claimed Ref[E], ok bool) {
	if shared.b == nil {
		panic("rc: use of released handle")
	}
	if !shared.b.count.IsOne() {
		return Ref[E]{}, false
	}
	b := shared.b
	shared.b = nil
	return Ref[E]{b: b}, true
}
