package refs

import (
	"reflect"
	"sync"
)

// defaults keeps one immutable default instance per element type, created
// on first use and never torn down before process exit.
var defaults sync.Map // reflect.Type -> *E

// defaultOf returns the process wide default instance of E. The pointee is
// shared by every lazy default wrapper of the same element type and must be
// treated as read only.
func defaultOf[E any]() *E {
	key := reflect.TypeFor[E]()
	if p, ok := defaults.Load(key); ok {
		return p.(*E)
	}
	p, _ := defaults.LoadOrStore(key, new(E))
	return p.(*E)
}
