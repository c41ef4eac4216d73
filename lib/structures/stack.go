package structures

import (
	"github.com/ludaludaed/atomic-shared-pointer/lib/shared"
)

// --------------------------------------------------------------------------
// Treiber Stack
// --------------------------------------------------------------------------

type stackNode[T any] struct {
	value T
	next  shared.Ptr[stackNode[T]]
}

// Stack is an unbounded lock-free LIFO. The zero Stack is empty and
// ready to use.
type Stack[T any] struct {
	head shared.Atomic[stackNode[T]]
}

// Push adds value on top of the stack.
func (s *Stack[T]) Push(value T) {
	n := shared.MakeWith(stackNode[T]{value: value}, func(n *stackNode[T]) {
		n.next.Release()
	})
	node := n.Get()
	node.next = s.head.Load()
	for {
		desired := n.Clone()
		if s.head.CompareAndSwap(&node.next, desired) {
			n.Release()
			return
		}
		// The failed CAS refreshed node.next with the current head;
		// only the unconsumed desired handle needs dropping.
		desired.Release()
	}
}

// Pop removes and returns the top value, reporting false on an empty
// stack.
func (s *Stack[T]) Pop() (T, bool) {
	head := s.head.Load()
	for {
		if !head.Ok() {
			var zero T
			return zero, false
		}
		next := head.Get().next.Clone()
		if s.head.CompareAndSwap(&head, next) {
			value := head.Get().value
			head.Release()
			return value, true
		}
		// head was refreshed by the failed CAS.
		next.Release()
	}
}

// Close drops the stack's remaining nodes. Concurrent use after Close is
// not supported.
func (s *Stack[T]) Close() {
	s.head.Release()
}
