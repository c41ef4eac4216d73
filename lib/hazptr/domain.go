package hazptr

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"unsafe"
)

// --------------------------------------------------------------------------
// Domain
// --------------------------------------------------------------------------

// Domain is a hazard-pointer reclamation authority. All participants of
// one Domain observe each other's hazards; pointers retired through a
// Domain are only disposed once no hazard slot of that Domain holds
// them.
//
// The zero Domain is not usable; construct one with NewDomain or use the
// process-wide Global domain.
type Domain struct {
	policy Policy
	head   atomic.Pointer[entry]
}

// NewDomain creates a domain with the given policy.
func NewDomain(p Policy) *Domain {
	return &Domain{policy: p.normalize()}
}

var globalDomain = sync.OnceValue(func() *Domain {
	return NewDomain(DefaultPolicy())
})

// Global returns the lazily-initialized process-wide domain.
func Global() *Domain {
	return globalDomain()
}

// Policy returns the sizing the domain was built with.
func (d *Domain) Policy() Policy {
	return d.policy
}

// --------------------------------------------------------------------------
// Protect / Retire
// --------------------------------------------------------------------------

// Protect publishes a hazard for the current value of addr and returns a
// Guard for it. While the Guard is live the pointed-to object cannot be
// disposed by any scan of this domain. The Guard's value may be nil if
// the cell held nil; the Guard must be released either way.
//
// The publish-then-revalidate loop is load-bearing: a value is only
// returned after a re-read of addr observed the published hazard still
// current, so a concurrent writer that unlinked the pointer beforehand
// is guaranteed to see the hazard during its scan.
func Protect[T any](d *Domain, addr *atomic.Pointer[T]) Guard[T] {
	e := d.acquireEntry()
	s := e.acquireSlot()
	var p *T
	for {
		p = addr.Load()
		s.publish(unsafe.Pointer(p))
		if p == addr.Load() {
			break
		}
	}
	return Guard[T]{value: p, slot: s, entry: e, domain: d}
}

// Retire hands ptr to the domain for deferred disposal. The disposer is
// invoked exactly once, from some participant's scan, after no hazard
// slot in the domain references ptr anymore. Disposers must not panic.
//
// If the retired list is full the calling goroutine scans, and yields
// between attempts until space is freed.
func Retire[T any](d *Domain, ptr *T, disposer func(*T)) {
	if ptr == nil {
		return
	}
	e := d.acquireEntry()
	for e.retired.full() {
		d.scan(e)
		if e.retired.full() {
			retireStalls.Inc()
			runtime.Gosched()
		}
	}
	e.retired.push(retiredPtr{
		ptr: unsafe.Pointer(ptr),
		dispose: func(p unsafe.Pointer) {
			disposer((*T)(p))
		},
	})
	retiredTotal.Inc()
	e.release()
}

// Drain reclaims everything that is reclaimable right now: it adopts the
// retired lists of every released entry and scans. Objects still covered
// by a live hazard remain pending. Intended for quiescent points such as
// process shutdown and tests.
func (d *Domain) Drain() {
	e := d.acquireEntry()
	d.scan(e)
	d.helpScan(e)
	e.release()
}

// --------------------------------------------------------------------------
// Scanning
// --------------------------------------------------------------------------

// scan disposes every pointer of e's retired list that no hazard slot in
// the registry currently holds, and compacts the survivors. The caller
// must own e.
func (d *Domain) scan(e *entry) {
	if e.retired.empty() {
		return
	}
	scansTotal.Inc()

	items := e.retired.items
	sort.Slice(items, func(i, j int) bool {
		return uintptr(items[i].ptr) < uintptr(items[j].ptr)
	})

	// One bit per retired slot; set means some hazard covers it.
	covered := make([]uint64, (len(items)+63)/64)
	for te := d.head.Load(); te != nil; te = te.next {
		for i := range te.slots {
			p := te.slots[i].load()
			if p == nil {
				continue
			}
			idx := sort.Search(len(items), func(k int) bool {
				return uintptr(items[k].ptr) >= uintptr(p)
			})
			if idx < len(items) && items[idx].ptr == p {
				covered[idx/64] |= 1 << (idx % 64)
			}
		}
	}

	insert := 0
	for i := range items {
		if covered[i/64]&(1<<(i%64)) == 0 {
			items[i].dispose(items[i].ptr)
			reclaimedTotal.Inc()
		} else {
			if insert != i {
				items[insert] = items[i]
			}
			insert++
		}
	}
	e.retired.items = items[:insert]
}

// helpScan adopts the retired lists of released entries into e and scans
// them, so that retires left behind by a departed holder are eventually
// disposed. The caller must own e.
func (d *Domain) helpScan(e *entry) {
	for te := d.head.Load(); te != nil; te = te.next {
		if te == e {
			continue
		}
		if !te.tryAcquire() {
			continue
		}
		if te.retired.empty() {
			te.release()
			continue
		}
		helpScansTotal.Inc()
		for _, r := range te.retired.items {
			for e.retired.full() {
				d.scan(e)
				if e.retired.full() {
					retireStalls.Inc()
					runtime.Gosched()
				}
			}
			e.retired.push(r)
		}
		te.retired.clear()
		te.release()
		d.scan(e)
	}
}
