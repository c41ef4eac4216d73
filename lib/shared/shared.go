package shared

// --------------------------------------------------------------------------
// Strong Pointer
// --------------------------------------------------------------------------

// Ptr is an owning handle on a shared value. Each live Ptr accounts for
// exactly one strong unit on its control block. The zero Ptr is empty.
//
// Ownership is explicit: Clone creates a new owning handle, Release
// drops one. Passing a Ptr to a consuming operation (Atomic.Store,
// Atomic.Swap, a successful CompareAndSwap) transfers the handle's unit;
// the caller must not Release it afterwards.
type Ptr[T any] struct {
	b *controlBlock
	v *T
}

// Make allocates value and control block in one piece and returns the
// first owning handle.
func Make[T any](v T) Ptr[T] {
	b, p := newInplaceBlock[T](nil)
	*p = v
	return Ptr[T]{b: b, v: p}
}

// MakeWith is Make with a disposer that runs exactly once, when the last
// strong reference drops. The disposer must not panic.
func MakeWith[T any](v T, disposer func(*T)) Ptr[T] {
	b, p := newInplaceBlock(disposer)
	*p = v
	return Ptr[T]{b: b, v: p}
}

// New allocates a zero value of T in place and returns the first owning
// handle. Use this instead of Make when T contains atomic cells, which
// must not travel by value; initialize the value through Get.
func New[T any](disposer func(*T)) Ptr[T] {
	b, p := newInplaceBlock(disposer)
	return Ptr[T]{b: b, v: p}
}

// Adopt takes ownership of a caller-allocated value. The disposer (which
// may be nil) runs on the terminal strong drop. Adopt of a nil value
// returns the empty Ptr.
func Adopt[T any](v *T, disposer func(*T)) Ptr[T] {
	if v == nil {
		return Ptr[T]{}
	}
	return Ptr[T]{b: newExternalBlock(v, disposer), v: v}
}

// Clone returns a new owning handle on the same value.
func (p Ptr[T]) Clone() Ptr[T] {
	if p.b != nil {
		p.b.incrementStrong(1)
	}
	return p
}

// Release drops this handle's strong unit and empties the Ptr. Releasing
// an empty Ptr (including one already released) is a no-op; releasing
// two by-value copies of one handle drops two units.
func (p *Ptr[T]) Release() {
	b := p.b
	p.b, p.v = nil, nil
	if b != nil {
		b.decrementStrong(1)
	}
}

// Reset drops the current value and leaves the Ptr empty.
func (p *Ptr[T]) Reset() {
	var empty Ptr[T]
	p.Swap(&empty)
	empty.Release()
}

// ResetTo drops the current value and adopts v in its place.
func (p *Ptr[T]) ResetTo(v *T, disposer func(*T)) {
	fresh := Adopt(v, disposer)
	p.Swap(&fresh)
	fresh.Release()
}

// Swap exchanges the two handles.
func (p *Ptr[T]) Swap(o *Ptr[T]) {
	p.b, o.b = o.b, p.b
	p.v, o.v = o.v, p.v
}

// Get returns the underlying value pointer, nil for the empty Ptr.
// Pointer identity follows the value, not the control block.
func (p Ptr[T]) Get() *T {
	return p.v
}

// Deref returns the pointed-to value. It panics on an empty Ptr.
func (p Ptr[T]) Deref() T {
	return *p.v
}

// Ok reports whether the Ptr owns a value.
func (p Ptr[T]) Ok() bool {
	return p.b != nil
}

// Equal reports whether both handles reference the same value.
func (p Ptr[T]) Equal(o Ptr[T]) bool {
	return p.v == o.v
}

// UseCount returns the current strong count. The value is advisory: by
// the time it is observed it may already be stale.
func (p Ptr[T]) UseCount() int64 {
	if p.b == nil {
		return 0
	}
	return p.b.useCount()
}

// Downgrade returns a weak handle on the same value.
func (p Ptr[T]) Downgrade() Weak[T] {
	if p.b != nil {
		p.b.incrementWeak(1)
	}
	return Weak[T]{b: p.b, v: p.v}
}

// take strips the handle and returns the raw block with its strong unit.
// Cells use this to adopt a handle's ownership.
func (p *Ptr[T]) take() *controlBlock {
	b := p.b
	p.b, p.v = nil, nil
	return b
}

// ptrFromBlock builds an owning handle around a block whose strong unit
// the caller already holds.
func ptrFromBlock[T any](b *controlBlock) Ptr[T] {
	if b == nil {
		return Ptr[T]{}
	}
	return Ptr[T]{b: b, v: (*T)(b.value)}
}
