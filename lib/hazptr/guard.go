package hazptr

// --------------------------------------------------------------------------
// Guard
// --------------------------------------------------------------------------

// Guard pairs a protected pointer with the hazard slot covering it. It
// must be released exactly once; the zero Guard is released trivially.
// A Guard must not be copied and should be released by the goroutine
// that created it.
type Guard[T any] struct {
	value  *T
	slot   *slot
	entry  *entry
	domain *Domain
}

// Get returns the protected pointer, nil if the source held nil.
func (g *Guard[T]) Get() *T {
	return g.value
}

// Deref returns the protected value. It panics on a nil Guard value.
func (g *Guard[T]) Deref() T {
	return *g.value
}

// Ok reports whether the Guard protects a non-nil pointer.
func (g *Guard[T]) Ok() bool {
	return g.value != nil
}

// Release withdraws the hazard and returns the slot to its entry. Every
// ScanDelay-th release triggers a scan and a help-scan.
func (g *Guard[T]) Release() {
	if g.slot == nil {
		return
	}
	e, d := g.entry, g.domain
	e.releaseSlot(g.slot)
	g.value, g.slot, g.entry, g.domain = nil, nil, nil, nil

	e.ticks++
	if e.ticks%uint64(d.policy.ScanDelay) == 0 {
		d.scan(e)
		d.helpScan(e)
	}
	e.release()
}
