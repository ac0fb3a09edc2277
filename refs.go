// Package refs provides compact, shareable value abstractions built on a
// reference counted heap handle.
//
// IntOrRef packs either a small integer or a counted reference into one
// machine word. CopyOnWrite gives cheap shared read only access to a heap
// value and defers cloning until a caller asks for mutable access.
//
// Both are passive value types. Distinct aliases of the same allocation may
// be read from any number of goroutines, mutable access to aliases of one
// allocation must be serialized by the caller.
package refs
