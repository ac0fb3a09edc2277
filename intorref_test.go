package refs_test

import (
	"sync/atomic"
	"testing"

	"github.com/brickingsoft/refs"
	"github.com/brickingsoft/refs/pkg/rc"
)

// tracked counts live instances: newTracked and Clone add one, the refcount
// destroying the allocation subtracts it via Close.
type tracked struct {
	counter *atomic.Int64
	value   int
}

func (tr *tracked) Close() error {
	tr.counter.Add(-1)
	return nil
}

func (tr tracked) Clone() tracked {
	tr.counter.Add(1)
	return tr
}

func newTracked(counter *atomic.Int64, value int) tracked {
	counter.Add(1)
	return tracked{counter: counter, value: value}
}

func TestIntOrRefDefault(t *testing.T) {
	var v refs.IntOrRef[tracked]
	if !v.HasInt() || v.HasRef() {
		t.Error("zero value must hold an integer")
	}
	if n, ok := v.Int(); !ok || n != 0 {
		t.Error("zero value must hold 0, got", n, ok)
	}
	if v.Ref() != nil {
		t.Error("integer variant must have a nil reference")
	}
}

func TestIntOrRefInt(t *testing.T) {
	v := refs.IntOf[tracked](42)
	if !v.HasInt() || v.HasRef() {
		t.Error("expected the integer variant")
	}
	if n, ok := v.Int(); !ok || n != 42 {
		t.Error("expected 42, got", n, ok)
	}
	if v.Ref() != nil {
		t.Error("integer variant must have a nil reference")
	}
}

func TestIntOrRefNegativeInt(t *testing.T) {
	v := refs.IntOf[tracked](-42)
	if n, ok := v.Int(); !ok || n != -42 {
		t.Error("expected -42, got", n, ok)
	}
}

func TestIntOrRefOutOfRangeInt(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	refs.IntOf[tracked](int(^uint(0) >> 1))
}

func TestIntOrRefObjectLifecycle(t *testing.T) {
	counter := new(atomic.Int64)
	v := refs.NewIntOrRef(newTracked(counter, 42))
	if counter.Load() != 1 {
		t.Error("construction must allocate once, counter", counter.Load())
	}
	if v.HasInt() || !v.HasRef() {
		t.Error("expected the reference variant")
	}
	if _, ok := v.Int(); ok {
		t.Error("reference variant must have no integer")
	}
	if v.Ref().value != 42 {
		t.Error("unexpected pointee")
	}

	clone := v.Clone()
	if counter.Load() != 1 {
		t.Error("Clone must alias, counter", counter.Load())
	}
	if clone.Ref() != v.Ref() {
		t.Error("aliases must share storage")
	}
	if err := clone.Close(); err != nil {
		t.Error(err)
	}
	if counter.Load() != 1 {
		t.Error("closing one alias must not destroy")
	}
	if err := v.Close(); err != nil {
		t.Error(err)
	}
	if counter.Load() != 0 {
		t.Error("pointee leaked")
	}
}

func TestIntOrRefMove(t *testing.T) {
	counter := new(atomic.Int64)
	a := refs.NewIntOrRef(newTracked(counter, 7))
	b := a.Move()
	if !a.HasInt() {
		t.Error("moved-from value must reset to the integer 0")
	}
	if n, _ := a.Int(); n != 0 {
		t.Error("moved-from value must hold 0, got", n)
	}
	if !b.HasRef() || b.Ref().value != 7 {
		t.Error("move must carry the reference over")
	}
	if err := b.Close(); err != nil {
		t.Error(err)
	}
	if counter.Load() != 0 {
		t.Error("pointee leaked")
	}
}

func TestIntOrRefMatch(t *testing.T) {
	n := refs.IntOf[int](42)
	matched := 0
	n.Match(func(got int) {
		matched++
		if got != 42 {
			t.Error("expected 42, got", got)
		}
	}, func(*int) {
		t.Error("integer variant must not match the reference callback")
	})
	if matched != 1 {
		t.Error("expected exactly one match")
	}

	r := refs.NewIntOrRef(42)
	r.Match(func(int) {
		t.Error("reference variant must not match the integer callback")
	}, func(got *int) {
		matched++
		if *got != 42 {
			t.Error("expected pointee 42, got", *got)
		}
	})
	if matched != 2 {
		t.Error("expected exactly one match")
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}

func TestIntOrRefEqual(t *testing.T) {
	a := refs.IntOf[int](42)
	b := refs.IntOf[int](42)
	c := refs.IntOf[int](43)
	r := refs.NewIntOrRef(42)
	s := refs.NewIntOrRef(42)
	defer func() {
		_ = r.Close()
		_ = s.Close()
	}()

	if !refs.Equal(&a, &b) {
		t.Error("equal integers must compare equal")
	}
	if refs.Equal(&a, &c) {
		t.Error("different integers must not compare equal")
	}
	if refs.Equal(&a, &r) || refs.Equal(&r, &a) {
		t.Error("an integer and a reference never compare equal")
	}
	if !refs.Equal(&r, &s) {
		t.Error("references with equal pointees must compare equal")
	}
}

func TestMutIntOrRefFreeze(t *testing.T) {
	counter := new(atomic.Int64)
	m := refs.NewMutIntOrRef(newTracked(counter, 1))
	m.Ref().value = 7
	frozen := m.Freeze()
	if !m.HasInt() {
		t.Error("Freeze must reset the source to the integer 0")
	}
	if counter.Load() != 1 {
		t.Error("Freeze must move the handle, not copy, counter", counter.Load())
	}
	if !frozen.HasRef() || frozen.Ref().value != 7 {
		t.Error("frozen value must see the mutation")
	}
	if err := frozen.Close(); err != nil {
		t.Error(err)
	}
	if counter.Load() != 0 {
		t.Error("pointee leaked")
	}
}

func TestMutIntOrRefFreezeInt(t *testing.T) {
	m := refs.MutIntOf[tracked](-3)
	frozen := m.Freeze()
	if n, ok := frozen.Int(); !ok || n != -3 {
		t.Error("Freeze must carry the integer verbatim, got", n, ok)
	}
}

func TestAdoptRef(t *testing.T) {
	counter := new(atomic.Int64)
	ref := rc.New(newTracked(counter, 9))
	shared := ref.Share()
	v := refs.AdoptRef(&shared)
	if shared.Valid() {
		t.Error("AdoptRef must consume the handle")
	}
	if !v.HasRef() || v.Ref().value != 9 {
		t.Error("adopted handle must be readable")
	}
	if err := v.Close(); err != nil {
		t.Error(err)
	}
	if counter.Load() != 0 {
		t.Error("pointee leaked")
	}
}
