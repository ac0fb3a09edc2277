package refs

import (
	"github.com/brickingsoft/refs/pkg/rc"
)

// Cloner lets element types control how Mutable copies a shared value.
// Types that keep interior pointers (slices, maps, nested wrappers) should
// implement it, everything else is copied by plain assignment.
type Cloner[E any] interface {
	Clone() E
}

// CopyOnWrite manages an instance of E on the heap. Cloning a wrapper is as
// cheap as bumping a refcount, the actual copy of E is deferred until a
// caller requests mutable access.
//
// The zero value is the lazy default state: nothing is allocated and reads
// are served by a process wide default instance of E. The state is left for
// good on the first Mutable call.
//
// Alias with Clone, release with Close. Pointers returned by Value and
// Mutable stay valid only until the wrapper is next cloned, moved or
// closed, do not retain them across such calls. With and Mutate are the
// safer way to edit.
type CopyOnWrite[E any] struct {
	ref rc.Shared[E]
}

// NewCopyOnWrite heap allocates value eagerly.
func NewCopyOnWrite[E any](value E) CopyOnWrite[E] {
	ref := rc.New(value)
	return CopyOnWrite[E]{ref: ref.Share()}
}

// IsLazyDefault reports whether no mutable access happened yet and reads
// still go to the shared default instance. Apart from this predicate the
// state is indistinguishable from owning a freshly materialized default
// value.
func (cow *CopyOnWrite[E]) IsLazyDefault() bool {
	return !cow.ref.Valid()
}

// Value dereferences without copying or changing state. The pointee is read
// only by contract.
func (cow *CopyOnWrite[E]) Value() *E {
	if !cow.ref.Valid() {
		return defaultOf[E]()
	}
	return cow.ref.Value()
}

// Mutable returns a pointer the caller may write through, leaving the
// wrapper the sole owner of its allocation.
//
// A lazy default wrapper materializes a fresh default value. Otherwise,
// when the refcount proves sole ownership the current allocation is claimed
// in place with no copy, else the value is cloned and the wrapper rebound
// to the clone while the old alias is released.
//
// Mutable calls on aliases of the same allocation must be serialized by the
// caller.
func (cow *CopyOnWrite[E]) Mutable() *E {
	if !cow.ref.Valid() {
		ref := rc.Make[E](nil)
		cow.ref = ref.Share()
		return cow.ref.Value()
	}
	if claimed, ok := cow.ref.AttemptToClaim(); ok {
		cow.ref = claimed.Share()
		return cow.ref.Value()
	}
	ref := rc.New(cloneValue(*cow.ref.Value()))
	old := cow.ref
	cow.ref = ref.Share()
	_ = old.Close()
	return cow.ref.Value()
}

// With clones the wrapper, lets mutator edit the clone and returns it. The
// receiver is unaffected.
func (cow *CopyOnWrite[E]) With(mutator func(*E)) CopyOnWrite[E] {
	clone := cow.Clone()
	mutator(clone.Mutable())
	return clone
}

// Mutate edits the wrapper in place and returns the receiver, for chaining.
func (cow *CopyOnWrite[E]) Mutate(mutator func(*E)) *CopyOnWrite[E] {
	mutator(cow.Mutable())
	return cow
}

// Clone aliases the allocation (refcount plus one). A lazy default wrapper
// clones into another lazy default wrapper, still with no allocation.
func (cow *CopyOnWrite[E]) Clone() CopyOnWrite[E] {
	if !cow.ref.Valid() {
		return CopyOnWrite[E]{}
	}
	return CopyOnWrite[E]{ref: cow.ref.Clone()}
}

// Move transfers the contents and leaves the receiver lazy default.
func (cow *CopyOnWrite[E]) Move() CopyOnWrite[E] {
	moved := CopyOnWrite[E]{ref: cow.ref}
	cow.ref = rc.Shared[E]{}
	return moved
}

// Close releases the allocation if any and leaves the receiver lazy
// default.
func (cow *CopyOnWrite[E]) Close() error {
	if !cow.ref.Valid() {
		return nil
	}
	ref := cow.ref
	cow.ref = rc.Shared[E]{}
	return ref.Close()
}

func cloneValue[E any](value E) E {
	if cloner, ok := any(value).(Cloner[E]); ok {
		return cloner.Clone()
	}
	return value
}
