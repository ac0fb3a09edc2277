package rc

import (
	"unsafe"

	"github.com/brickingsoft/refs/pkg/tagged"
)

// Word collapses the handle into one tagged machine word, consuming the
// receiver. The refcount is unchanged. The allocation stays reachable
// through the live table until the word is rebuilt into a handle and that
// handle released, so erased words are safe to hold across collections.
func (shared *Shared[E]) Word() tagged.Word {
	if shared.b == nil {
		panic("rc: use of released handle")
	}
	b := shared.b
	shared.b = nil
	return tagged.PackPointer(uintptr(unsafe.Pointer(b)))
}

// SharedFromWord rebuilds the handle erased by Shared.Word. The element
// type must be the one the word was erased with, nothing checks it.
func SharedFromWord[E any](w tagged.Word) Shared[E] {
	return Shared[E]{b: (*box[E])(unsafe.Pointer(w.Pointer()))}
}

// Word collapses the unique handle into one tagged machine word, consuming
// the receiver. See Shared.Word.
func (ref *Ref[E]) Word() tagged.Word {
	if ref.b == nil {
		panic("rc: use of released handle")
	}
	b := ref.b
	ref.b = nil
	return tagged.PackPointer(uintptr(unsafe.Pointer(b)))
}

// RefFromWord rebuilds the handle erased by Ref.Word.
func RefFromWord[E any](w tagged.Word) Ref[E] {
	return Ref[E]{b: (*box[E])(unsafe.Pointer(w.Pointer()))}
}
