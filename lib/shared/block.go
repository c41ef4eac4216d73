package shared

import (
	"sync/atomic"
	"unsafe"
)

// --------------------------------------------------------------------------
// Control Block
// --------------------------------------------------------------------------

// controlBlock carries the two reference counters and the type-erased
// lifecycle hooks of one shared value.
//
// Counter protocol: strong is the number of owning handles (cells
// included). weak is the number of weak handles plus one unit owned
// collectively by the strong handles. strong reaching zero runs
// destroyFn once and drops the collective weak unit; weak reaching zero
// runs disposeFn once, after which the block must not be touched.
type controlBlock struct {
	strong atomic.Int64
	weak   atomic.Int64

	value     unsafe.Pointer
	destroyFn func() // invoked once when strong hits zero, may be nil
	disposeFn func() // invoked once when weak hits zero, may be nil

	pendingNext *controlBlock // link for the flattened-destroy stack
}

func (b *controlBlock) init() {
	b.strong.Store(1)
	b.weak.Store(1)
}

// tryIncrementStrong adds one strong unit unless the count has already
// reached zero. This is the only path that may observe zero and must
// not resurrect: promotion from weak goes through here.
func (b *controlBlock) tryIncrementStrong() bool {
	for {
		n := b.strong.Load()
		if n == 0 {
			return false
		}
		if b.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (b *controlBlock) incrementStrong(n int64) {
	b.strong.Add(n)
}

func (b *controlBlock) incrementWeak(n int64) {
	b.weak.Add(n)
}

// decrementStrong removes n strong units. The terminal transition goes
// through the flattened-destroy stack so that values whose disposers
// drop further strong references are destroyed iteratively.
func (b *controlBlock) decrementStrong(n int64) {
	if b.strong.Add(-n) <= 0 {
		deferDestroy(b)
	}
}

// decrementWeak removes n weak units, recycling the block on the
// terminal transition.
func (b *controlBlock) decrementWeak(n int64) {
	if b.weak.Add(-n) <= 0 {
		if b.disposeFn != nil {
			b.disposeFn()
		}
	}
}

func (b *controlBlock) useCount() int64 {
	return b.strong.Load()
}

// --------------------------------------------------------------------------
// Flattened Destruction
// --------------------------------------------------------------------------

// Terminal strong decrements funnel through a process-wide intrusive
// stack drained behind a gate. A block is pushed here once per lifetime
// (pool blocks start a new lifetime when reused), and only the gate
// holder pops, so the pop below is ABA-free. Whoever
// wins the gate destroys queued blocks until the stack stays empty;
// disposers that trigger further terminal decrements only grow the
// stack, never the call stack.
var (
	pendingDestroy atomic.Pointer[controlBlock]
	destroyGate    atomic.Bool
)

func deferDestroy(b *controlBlock) {
	for {
		head := pendingDestroy.Load()
		b.pendingNext = head
		if pendingDestroy.CompareAndSwap(head, b) {
			break
		}
	}
	if !destroyGate.CompareAndSwap(false, true) {
		return
	}
	for {
		for {
			top := pendingDestroy.Load()
			if top == nil {
				break
			}
			if !pendingDestroy.CompareAndSwap(top, top.pendingNext) {
				continue
			}
			top.pendingNext = nil
			if top.destroyFn != nil {
				top.destroyFn()
			}
			top.decrementWeak(1)
		}
		destroyGate.Store(false)
		// Re-check after opening the gate: a push that lost the gate
		// race must not be stranded.
		if pendingDestroy.Load() == nil {
			return
		}
		if !destroyGate.CompareAndSwap(false, true) {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Block Construction
// --------------------------------------------------------------------------

// inplaceBlock embeds the value in the same allocation as its control
// block. The controlBlock must stay the first field so the two pointers
// are interchangeable.
type inplaceBlock[T any] struct {
	controlBlock
	val T
}

func newInplaceBlock[T any](disposer func(*T)) (*controlBlock, *T) {
	blk := &inplaceBlock[T]{}
	blk.init()
	blk.value = unsafe.Pointer(&blk.val)
	if disposer != nil {
		blk.destroyFn = func() { disposer(&blk.val) }
	}
	return &blk.controlBlock, &blk.val
}

// newExternalBlock wraps a caller-allocated value. The disposer stands
// in for the value's destructor and runs on the terminal strong drop.
func newExternalBlock[T any](v *T, disposer func(*T)) *controlBlock {
	b := &controlBlock{value: unsafe.Pointer(v)}
	b.init()
	if disposer != nil {
		b.destroyFn = func() { disposer(v) }
	}
	return b
}
