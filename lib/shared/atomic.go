package shared

import (
	"sync/atomic"

	"github.com/ludaludaed/atomic-shared-pointer/lib/hazptr"
)

// noCopy triggers `go vet -copylocks` on cells copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// --------------------------------------------------------------------------
// Atomic Strong Cell
// --------------------------------------------------------------------------

// Atomic is a lock-free cell holding a strong shared pointer. The zero
// Atomic is an empty, usable cell; it must not be copied after first use
// and a non-empty cell should be dropped with Release.
//
// The cell owns one strong unit on its pointee. Replacing the pointee
// never decrements the displaced unit inline: the decrement is retired
// through the hazard-pointer domain, so a concurrent Load that already
// published the old block cannot observe it freed.
type Atomic[T any] struct {
	_     noCopy
	block atomic.Pointer[controlBlock]
}

// IsLockFree reports whether cell operations are lock-free. Always true:
// the cell is a single machine word.
func (a *Atomic[T]) IsLockFree() bool {
	return true
}

// Store replaces the cell's pointer with p, consuming p's unit. The
// displaced reference is dropped through the reclamation domain.
func (a *Atomic[T]) Store(p Ptr[T]) {
	old := a.block.Swap(p.take())
	if old != nil {
		retireDecrementStrong(old)
	}
}

// Load returns an owning handle on the cell's current pointee, or the
// empty Ptr. The candidate block is hazard-protected before its strong
// count is touched, and the increment is conditional, so a block whose
// count already hit zero is never resurrected.
func (a *Atomic[T]) Load() Ptr[T] {
	g := hazptr.Protect(hazptr.Global(), &a.block)
	defer g.Release()
	b := g.Get()
	if b == nil || !b.tryIncrementStrong() {
		return Ptr[T]{}
	}
	return ptrFromBlock[T](b)
}

// Swap replaces the cell's pointer with p, consuming p's unit, and
// returns the displaced handle. The caller adopts the old unit directly,
// so no deferred drop is needed.
func (a *Atomic[T]) Swap(p Ptr[T]) Ptr[T] {
	old := a.block.Swap(p.take())
	return ptrFromBlock[T](old)
}

// CompareAndSwap installs desired if the cell still holds expected's
// block. On success the displaced unit is dropped through the domain,
// desired's unit is consumed, and expected is left untouched. On failure
// desired stays owned by the caller and *expected is replaced with a
// fresh, hazard-protected Load of the cell (the previous expected handle
// is released).
func (a *Atomic[T]) CompareAndSwap(expected *Ptr[T], desired Ptr[T]) bool {
	if a.block.CompareAndSwap(expected.b, desired.b) {
		if expected.b != nil {
			retireDecrementStrong(expected.b)
		}
		desired.take()
		return true
	}
	old := *expected
	*expected = a.Load()
	old.Release()
	return false
}

// Release empties the cell and drops its unit through the domain. A
// racing Load may still hold the raw block, so even the final drop is
// deferred.
func (a *Atomic[T]) Release() {
	old := a.block.Swap(nil)
	if old != nil {
		retireDecrementStrong(old)
	}
}

func retireDecrementStrong(b *controlBlock) {
	hazptr.Retire(hazptr.Global(), b, func(cb *controlBlock) {
		cb.decrementStrong(1)
	})
}
