package tagged

import (
	"unsafe"
)

const (
	wordBits = int(unsafe.Sizeof(uintptr(0))) * 8

	// MaxInt and MinInt bound the integers that survive the one bit tag shift.
	MaxInt = 1<<(wordBits-2) - 1
	MinInt = -1 << (wordBits - 2)
)

// Word is one machine word holding either a small integer or an aligned
// pointer. The least significant bit is the discriminant: 1 means integer,
// 0 means pointer. The encoding is valid because allocations are at least
// two byte aligned, so a real pointer never has its low bit set.
//
// The zero Word is not produced by PackInt or PackPointer, callers may use
// it as a sentinel.
type Word uintptr

// Fits reports whether n survives the one bit shift used by PackInt.
func Fits(n int) bool {
	return n >= MinInt && n <= MaxInt
}

// PackInt stores n shifted left by one with the low bit set. Integers
// outside [MinInt, MaxInt] are a contract violation.
func PackInt(n int) Word {
	if !Fits(n) {
		panic("tagged: integer lost in tag shift")
	}
	return Word(uintptr(n)<<1 | 1)
}

// PackPointer stores a non nil, two byte aligned pointer verbatim.
func PackPointer(p uintptr) Word {
	if p == 0 {
		panic("tagged: pointer is nil")
	}
	if p&1 != 0 {
		panic("tagged: pointer is not aligned")
	}
	return Word(p)
}

func (w Word) IsInt() bool {
	return w&1 == 1
}

func (w Word) IsPointer() bool {
	return w&1 == 0
}

// Int returns the stored integer. The shift back is arithmetic, so negative
// values decode unchanged.
func (w Word) Int() int {
	if !w.IsInt() {
		panic("tagged: word holds a pointer")
	}
	return int(uintptr(w)) >> 1
}

// Pointer returns the stored pointer.
func (w Word) Pointer() uintptr {
	if !w.IsPointer() {
		panic("tagged: word holds an integer")
	}
	return uintptr(w)
}
