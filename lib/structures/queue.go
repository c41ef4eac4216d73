package structures

import (
	"github.com/ludaludaed/atomic-shared-pointer/lib/shared"
)

// --------------------------------------------------------------------------
// Michael–Scott Queue
// --------------------------------------------------------------------------

type queueNode[T any] struct {
	value T
	next  shared.Atomic[queueNode[T]]
}

func newQueueNode[T any](value T) shared.Ptr[queueNode[T]] {
	n := shared.New(func(n *queueNode[T]) {
		n.next.Release()
	})
	n.Get().value = value
	return n
}

// Queue is an unbounded lock-free FIFO (Michael–Scott). head always
// points at a dummy node; tail may lag by one and is helped forward by
// any operation that notices.
type Queue[T any] struct {
	head shared.Atomic[queueNode[T]]
	tail shared.Atomic[queueNode[T]]
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	dummy := newQueueNode(*new(T))
	q.head.Store(dummy.Clone())
	q.tail.Store(dummy)
	return q
}

// Push appends value at the tail.
func (q *Queue[T]) Push(value T) {
	n := newQueueNode(value)
	var curTail shared.Ptr[queueNode[T]]
	for {
		curTail.Release()
		curTail = q.tail.Load()
		next := curTail.Get().next.Load()
		if next.Ok() {
			// Tail lags; help it forward before retrying.
			helped := next.Clone()
			if !q.tail.CompareAndSwap(&curTail, helped) {
				helped.Release()
			}
			next.Release()
			continue
		}
		var empty shared.Ptr[queueNode[T]]
		desired := n.Clone()
		if curTail.Get().next.CompareAndSwap(&empty, desired) {
			break
		}
		// The failed CAS loaded the actual successor into empty.
		desired.Release()
		empty.Release()
	}
	swing := n.Clone()
	if !q.tail.CompareAndSwap(&curTail, swing) {
		swing.Release()
	}
	curTail.Release()
	n.Release()
}

// Pop removes and returns the front value, reporting false on an empty
// queue.
func (q *Queue[T]) Pop() (T, bool) {
	for {
		curHead := q.head.Load()
		next := curHead.Get().next.Load()
		if !next.Ok() {
			curHead.Release()
			var zero T
			return zero, false
		}
		desired := next.Clone()
		if q.head.CompareAndSwap(&curHead, desired) {
			value := next.Get().value
			next.Release()
			curHead.Release()
			return value, true
		}
		// curHead was refreshed by the failed CAS.
		desired.Release()
		next.Release()
		curHead.Release()
	}
}

// Close drops the queue's remaining nodes, dummy included. Concurrent
// use after Close is not supported.
func (q *Queue[T]) Close() {
	q.tail.Release()
	q.head.Release()
}
