package refs

import (
	"github.com/brickingsoft/refs/pkg/rc"
	"github.com/brickingsoft/refs/pkg/tagged"
)

// IntOrRef holds either a small integer or a shared read only reference to
// a heap value of E, in the space of one machine word. The zero value holds
// the integer 0.
//
// The reference variant is counted: alias with Clone, release with Close.
// IntOrRef is the clonable counterpart of MutIntOrRef.
type IntOrRef[E any] struct {
	word tagged.Word
}

// IntOf returns the integer variant. Integers that do not survive the tag
// shift (see tagged.Fits) are a contract violation.
func IntOf[E any](n int) IntOrRef[E] {
	return IntOrRef[E]{word: tagged.PackInt(n)}
}

// AdoptRef adopts a shared handle, consuming it.
func AdoptRef[E any](shared *rc.Shared[E]) IntOrRef[E] {
	return IntOrRef[E]{word: shared.Word()}
}

// NewIntOrRef heap allocates value and wraps a fresh handle to it.
func NewIntOrRef[E any](value E) IntOrRef[E] {
	ref := rc.New(value)
	shared := ref.Share()
	return AdoptRef(&shared)
}

// load normalizes the zero word, which stands for the default integer 0.
func (v *IntOrRef[E]) load() tagged.Word {
	if v.word == 0 {
		return tagged.PackInt(0)
	}
	return v.word
}

func (v *IntOrRef[E]) HasInt() bool {
	return v.load().IsInt()
}

func (v *IntOrRef[E]) HasRef() bool {
	return v.load().IsPointer()
}

// Int returns the integer and true, or 0 and false for the reference
// variant.
func (v *IntOrRef[E]) Int() (int, bool) {
	w := v.load()
	if !w.IsInt() {
		return 0, false
	}
	return w.Int(), true
}

// Ref returns the referenced value, or nil for the integer variant. The
// pointee is read only by contract.
func (v *IntOrRef[E]) Ref() *E {
	w := v.load()
	if w.IsInt() {
		return nil
	}
	shared := rc.SharedFromWord[E](w)
	return shared.Value()
}

// Match invokes exactly one of the callbacks with the live variant. Nil
// callbacks are skipped.
func (v *IntOrRef[E]) Match(num func(int), ref func(*E)) {
	if n, ok := v.Int(); ok {
		if num != nil {
			num(n)
		}
		return
	}
	if ref != nil {
		ref(v.Ref())
	}
}

// Clone aliases the reference variant (refcount plus one) or copies the
// integer. O(1), never copies the pointee.
func (v *IntOrRef[E]) Clone() IntOrRef[E] {
	w := v.load()
	if w.IsInt() {
		return IntOrRef[E]{word: w}
	}
	shared := rc.SharedFromWord[E](w)
	clone := shared.Clone()
	return AdoptRef(&clone)
}

// Move transfers the contents and resets the receiver to the integer 0.
func (v *IntOrRef[E]) Move() IntOrRef[E] {
	moved := IntOrRef[E]{word: v.load()}
	v.word = tagged.PackInt(0)
	return moved
}

// Close releases the reference variant and resets the receiver to the
// integer 0. A no-op for the integer variant.
func (v *IntOrRef[E]) Close() error {
	w := v.load()
	v.word = tagged.PackInt(0)
	if w.IsInt() {
		return nil
	}
	shared := rc.SharedFromWord[E](w)
	return shared.Close()
}

// Equal reports whether both hold integers of equal value or both hold
// references whose pointees compare equal. An integer and a reference never
// match, whatever the numbers.
func Equal[E comparable](a, b *IntOrRef[E]) bool {
	an, aInt := a.Int()
	bn, bInt := b.Int()
	if aInt != bInt {
		return false
	}
	if aInt {
		return an == bn
	}
	return *a.Ref() == *b.Ref()
}

// MutIntOrRef is the mutable counterpart of IntOrRef: the reference variant
// owns its allocation uniquely and Ref hands out a writable pointer. It is
// move only, there is no Clone. Freeze converts it into the read only
// variant, never the other way around.
type MutIntOrRef[E any] struct {
	word tagged.Word
}

// MutIntOf returns the integer variant.
func MutIntOf[E any](n int) MutIntOrRef[E] {
	return MutIntOrRef[E]{word: tagged.PackInt(n)}
}

// AdoptMutRef adopts a unique handle, consuming it.
func AdoptMutRef[E any](ref *rc.Ref[E]) MutIntOrRef[E] {
	return MutIntOrRef[E]{word: ref.Word()}
}

// NewMutIntOrRef heap allocates value and wraps a fresh unique handle to it.
func NewMutIntOrRef[E any](value E) MutIntOrRef[E] {
	ref := rc.New(value)
	return AdoptMutRef(&ref)
}

func (v *MutIntOrRef[E]) load() tagged.Word {
	if v.word == 0 {
		return tagged.PackInt(0)
	}
	return v.word
}

func (v *MutIntOrRef[E]) HasInt() bool {
	return v.load().IsInt()
}

func (v *MutIntOrRef[E]) HasRef() bool {
	return v.load().IsPointer()
}

func (v *MutIntOrRef[E]) Int() (int, bool) {
	w := v.load()
	if !w.IsInt() {
		return 0, false
	}
	return w.Int(), true
}

// Ref returns the uniquely owned value for writing, or nil for the integer
// variant.
func (v *MutIntOrRef[E]) Ref() *E {
	w := v.load()
	if w.IsInt() {
		return nil
	}
	ref := rc.RefFromWord[E](w)
	return ref.Value()
}

// Move transfers the contents and resets the receiver to the integer 0.
func (v *MutIntOrRef[E]) Move() MutIntOrRef[E] {
	moved := MutIntOrRef[E]{word: v.load()}
	v.word = tagged.PackInt(0)
	return moved
}

// Freeze converts into the read only variant: the handle is moved with no
// copy, the integer is carried over verbatim. The receiver is reset to the
// integer 0.
func (v *MutIntOrRef[E]) Freeze() IntOrRef[E] {
	w := v.load()
	v.word = tagged.PackInt(0)
	if w.IsInt() {
		return IntOrRef[E]{word: w}
	}
	ref := rc.RefFromWord[E](w)
	shared := ref.Share()
	return AdoptRef(&shared)
}

// Close destroys the reference variant and resets the receiver to the
// integer 0. A no-op for the integer variant.
func (v *MutIntOrRef[E]) Close() error {
	w := v.load()
	v.word = tagged.PackInt(0)
	if w.IsInt() {
		return nil
	}
	ref := rc.RefFromWord[E](w)
	return ref.Close()
}
