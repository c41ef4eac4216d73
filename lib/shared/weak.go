package shared

// --------------------------------------------------------------------------
// Weak Pointer
// --------------------------------------------------------------------------

// Weak is a non-owning handle on a shared value. It keeps the control
// block alive (one weak unit) but not the value; Lock promotes it to an
// owning handle for as long as the value has not been destroyed. The
// zero Weak is empty.
type Weak[T any] struct {
	b *controlBlock
	v *T
}

// Clone returns a new weak handle on the same value.
func (w Weak[T]) Clone() Weak[T] {
	if w.b != nil {
		w.b.incrementWeak(1)
	}
	return w
}

// Release drops this handle's weak unit and empties the Weak.
func (w *Weak[T]) Release() {
	b := w.b
	w.b, w.v = nil, nil
	if b != nil {
		b.decrementWeak(1)
	}
}

// Lock promotes the weak handle to an owning one. It returns the empty
// Ptr if the value has already been destroyed; once a promotion has
// failed for a block it fails forever.
func (w Weak[T]) Lock() Ptr[T] {
	if w.b == nil || !w.b.tryIncrementStrong() {
		return Ptr[T]{}
	}
	return Ptr[T]{b: w.b, v: w.v}
}

// Expired reports whether the value has been destroyed. A false result
// is advisory: the value may expire immediately after; use Lock to make
// the answer binding.
func (w Weak[T]) Expired() bool {
	return w.b == nil || w.b.useCount() == 0
}

// Ok reports whether the Weak references a control block.
func (w Weak[T]) Ok() bool {
	return w.b != nil
}

// UseCount returns the current strong count of the referenced value.
func (w Weak[T]) UseCount() int64 {
	if w.b == nil {
		return 0
	}
	return w.b.useCount()
}

// take strips the handle and returns the raw block with its weak unit.
func (w *Weak[T]) take() *controlBlock {
	b := w.b
	w.b, w.v = nil, nil
	return b
}

// weakFromBlock builds a weak handle around a block whose weak unit the
// caller already holds.
func weakFromBlock[T any](b *controlBlock) Weak[T] {
	if b == nil {
		return Weak[T]{}
	}
	return Weak[T]{b: b, v: (*T)(b.value)}
}
