package shared

import (
	"sync"
	"unsafe"
)

// --------------------------------------------------------------------------
// Block Pool
// --------------------------------------------------------------------------

// BlockPool recycles control blocks for values of one type. MakeIn draws
// blocks from the pool and the terminal weak drop returns them, so a
// churn-heavy workload (nodes of a lock-free container, for instance)
// stops allocating once the pool is warm.
type BlockPool[T any] struct {
	pool     sync.Pool
	disposer func(*T)
}

// NewBlockPool creates a pool. The disposer, which may be nil, plays the
// destructor role for every value built through this pool: it runs
// exactly once per value, when its last strong reference drops.
func NewBlockPool[T any](disposer func(*T)) *BlockPool[T] {
	p := &BlockPool[T]{disposer: disposer}
	p.pool.New = func() any {
		blk := &inplaceBlock[T]{}
		blk.value = unsafe.Pointer(&blk.val)
		blk.destroyFn = func() {
			if p.disposer != nil {
				p.disposer(&blk.val)
			}
		}
		blk.disposeFn = func() {
			var zero T
			blk.val = zero
			p.pool.Put(blk)
		}
		return blk
	}
	return p
}

// MakeIn builds a shared value inside a pool-recycled control block and
// returns the first owning handle.
func MakeIn[T any](p *BlockPool[T], v T) Ptr[T] {
	blk := p.pool.Get().(*inplaceBlock[T])
	blk.val = v
	blk.init()
	return Ptr[T]{b: &blk.controlBlock, v: &blk.val}
}
