package shared

import (
	"sync/atomic"

	"github.com/ludaludaed/atomic-shared-pointer/lib/hazptr"
)

// --------------------------------------------------------------------------
// Atomic Weak Cell
// --------------------------------------------------------------------------

// AtomicWeak is the weak counterpart of Atomic: a lock-free cell holding
// one weak unit on its pointee. The zero AtomicWeak is an empty, usable
// cell; it must not be copied after first use.
type AtomicWeak[T any] struct {
	_     noCopy
	block atomic.Pointer[controlBlock]
}

// IsLockFree reports whether cell operations are lock-free. Always true.
func (a *AtomicWeak[T]) IsLockFree() bool {
	return true
}

// Store replaces the cell's pointer with w, consuming w's unit. The
// displaced weak unit is dropped through the reclamation domain.
func (a *AtomicWeak[T]) Store(w Weak[T]) {
	old := a.block.Swap(w.take())
	if old != nil {
		retireDecrementWeak(old)
	}
}

// Load returns a weak handle on the cell's current pointee, or the empty
// Weak. The cell's own weak unit cannot drop while the hazard is
// published (its decrement is deferred past the hazard), so the
// increment is unconditional.
func (a *AtomicWeak[T]) Load() Weak[T] {
	g := hazptr.Protect(hazptr.Global(), &a.block)
	defer g.Release()
	b := g.Get()
	if b == nil {
		return Weak[T]{}
	}
	b.incrementWeak(1)
	return weakFromBlock[T](b)
}

// Swap replaces the cell's pointer with w, consuming w's unit, and
// returns the displaced handle with the old unit adopted directly.
func (a *AtomicWeak[T]) Swap(w Weak[T]) Weak[T] {
	old := a.block.Swap(w.take())
	return weakFromBlock[T](old)
}

// CompareAndSwap installs desired if the cell still holds expected's
// block; the contract mirrors Atomic.CompareAndSwap with weak units.
func (a *AtomicWeak[T]) CompareAndSwap(expected *Weak[T], desired Weak[T]) bool {
	if a.block.CompareAndSwap(expected.b, desired.b) {
		if expected.b != nil {
			retireDecrementWeak(expected.b)
		}
		desired.take()
		return true
	}
	old := *expected
	*expected = a.Load()
	old.Release()
	return false
}

// Release empties the cell and drops its weak unit through the domain.
func (a *AtomicWeak[T]) Release() {
	old := a.block.Swap(nil)
	if old != nil {
		retireDecrementWeak(old)
	}
}

func retireDecrementWeak(b *controlBlock) {
	hazptr.Retire(hazptr.Global(), b, func(cb *controlBlock) {
		cb.decrementWeak(1)
	})
}
