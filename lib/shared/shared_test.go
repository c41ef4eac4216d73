package shared

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestRoundTrip covers the basic ownership cycle: clone, observe, release.
func TestRoundTrip(t *testing.T) {
	var disposed atomic.Int32
	a := MakeWith(42, func(*int) { disposed.Add(1) })

	b := a.Clone()
	if got := a.UseCount(); got != 2 {
		t.Errorf("UseCount after clone = %d, want 2", got)
	}
	if got := b.Deref(); got != 42 {
		t.Errorf("Deref = %d, want 42", got)
	}
	if !a.Equal(b) {
		t.Errorf("clone does not alias the original value")
	}

	b.Release()
	if got := a.UseCount(); got != 1 {
		t.Errorf("UseCount after release = %d, want 1", got)
	}
	if got := disposed.Load(); got != 0 {
		t.Fatalf("disposer ran with a live reference")
	}

	a.Release()
	if got := disposed.Load(); got != 1 {
		t.Errorf("disposer ran %d times, want exactly once", got)
	}
}

func TestEmptyPtr(t *testing.T) {
	var p Ptr[int]
	if p.Ok() {
		t.Errorf("zero Ptr reports Ok")
	}
	if p.Get() != nil {
		t.Errorf("zero Ptr has a value pointer")
	}
	if got := p.UseCount(); got != 0 {
		t.Errorf("zero Ptr UseCount = %d, want 0", got)
	}

	// Releasing an empty Ptr must be harmless
	p.Release()
	p.Release()
}

func TestAdopt(t *testing.T) {
	var disposed atomic.Int32
	v := new(string)
	*v = "adopted"

	p := Adopt(v, func(s *string) {
		if s != v {
			t.Errorf("disposer received %p, want %p", s, v)
		}
		disposed.Add(1)
	})
	if p.Get() != v {
		t.Errorf("Adopt does not expose the adopted value")
	}
	p.Release()
	if got := disposed.Load(); got != 1 {
		t.Errorf("disposer ran %d times, want exactly once", got)
	}

	var none Ptr[string]
	if got := Adopt[string](nil, nil); got != none {
		t.Errorf("Adopt(nil) is not the empty Ptr")
	}
}

func TestResetAndSwap(t *testing.T) {
	var disposedA, disposedB atomic.Int32
	a := MakeWith('a', func(*rune) { disposedA.Add(1) })
	b := MakeWith('b', func(*rune) { disposedB.Add(1) })

	a.Swap(&b)
	if a.Deref() != 'b' || b.Deref() != 'a' {
		t.Fatalf("Swap did not exchange the handles")
	}

	// Reset drops 'a' (currently held by b) and leaves b empty
	b.Reset()
	if b.Ok() {
		t.Errorf("Reset left the Ptr non-empty")
	}
	if disposedA.Load() != 1 || disposedB.Load() != 0 {
		t.Errorf("Reset disposed (a=%d, b=%d), want (1, 0)", disposedA.Load(), disposedB.Load())
	}

	a.Release()
	if disposedB.Load() != 1 {
		t.Errorf("disposer for 'b' ran %d times, want exactly once", disposedB.Load())
	}
}

func TestCounterConservation(t *testing.T) {
	const handles = 64

	a := Make("shared")
	clones := make([]Ptr[string], handles)
	var wg sync.WaitGroup
	for i := range clones {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clones[i] = a.Clone()
		}(i)
	}
	wg.Wait()

	if got := a.b.strong.Load(); got != handles+1 {
		t.Errorf("strong counter = %d, want %d", got, handles+1)
	}
	if got := a.b.weak.Load(); got != 1 {
		t.Errorf("weak counter = %d, want 1 (collective strong unit)", got)
	}

	w := a.Downgrade()
	if got := a.b.weak.Load(); got != 2 {
		t.Errorf("weak counter after downgrade = %d, want 2", got)
	}
	w.Release()

	for i := range clones {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clones[i].Release()
		}(i)
	}
	wg.Wait()
	if got := a.UseCount(); got != 1 {
		t.Errorf("UseCount after releasing clones = %d, want 1", got)
	}
	a.Release()
}

func TestWeakLockAndExpiry(t *testing.T) {
	var disposed atomic.Int32
	a := MakeWith(7, func(*int) { disposed.Add(1) })
	w := a.Downgrade()

	if w.Expired() {
		t.Fatalf("weak expired while a strong handle is live")
	}
	s := w.Lock()
	if !s.Ok() || s.Deref() != 7 {
		t.Fatalf("Lock failed on a live value")
	}
	s.Release()

	a.Release()
	if got := disposed.Load(); got != 1 {
		t.Fatalf("disposer ran %d times after last strong release, want 1", got)
	}
	if !w.Expired() {
		t.Errorf("weak not expired after the value was destroyed")
	}

	// Promotion monotonicity: once strong hit zero, Lock must fail forever
	for i := 0; i < 8; i++ {
		if got := w.Lock(); got.Ok() {
			t.Fatalf("Lock resurrected a destroyed value")
		}
	}
	w.Release()
}

// TestWeakPromotionRace races the last strong release against weak
// promotion. Either outcome is fine; what must hold is that a
// successful promotion aliases the original value and the disposer runs
// exactly once, after every strong handle is gone.
func TestWeakPromotionRace(t *testing.T) {
	const rounds = 2000

	for i := 0; i < rounds; i++ {
		var disposed atomic.Int32
		a := MakeWith(i, func(*int) { disposed.Add(1) })
		w := a.Downgrade()
		want := a.Get()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Release()
		}()
		go func() {
			defer wg.Done()
			if s := w.Lock(); s.Ok() {
				if s.Get() != want {
					t.Errorf("promoted handle does not alias the original value")
				}
				if disposed.Load() != 0 {
					t.Errorf("promotion succeeded on a destroyed value")
				}
				s.Release()
			}
		}()
		wg.Wait()

		if got := disposed.Load(); got != 1 {
			t.Fatalf("round %d: disposer ran %d times, want exactly once", i, got)
		}
		w.Release()
	}
}

// TestDeepChainDestruction drops the head of a very long singly linked
// chain and relies on the flattened-destroy path to unwind it with
// constant stack depth.
func TestDeepChainDestruction(t *testing.T) {
	type node struct {
		next Ptr[node]
	}

	length := 1_000_000
	if testing.Short() {
		length = 100_000
	}

	var disposed atomic.Int64
	disposer := func(n *node) {
		disposed.Add(1)
		n.next.Release()
	}

	var head Ptr[node]
	for i := 0; i < length; i++ {
		n := MakeWith(node{next: head}, disposer)
		head = n
	}

	head.Release()
	if got := disposed.Load(); got != int64(length) {
		t.Errorf("disposed %d nodes, want %d", got, length)
	}
}

func TestBlockPool(t *testing.T) {
	var disposed atomic.Int32
	pool := NewBlockPool(func(*int) { disposed.Add(1) })

	// Churn through the pool; every value's disposer must fire once
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		p := MakeIn(pool, i)
		if got := p.Deref(); got != i {
			t.Fatalf("round %d: Deref = %d", i, got)
		}
		c := p.Clone()
		p.Release()
		if got := c.Deref(); got != i {
			t.Fatalf("round %d: clone Deref = %d after partial release", i, got)
		}
		c.Release()
	}
	if got := disposed.Load(); got != rounds {
		t.Errorf("disposer ran %d times, want %d", got, rounds)
	}
}
