package structures_test

import (
	"testing"

	"github.com/ludaludaed/atomic-shared-pointer/lib/structures"
	sttesting "github.com/ludaludaed/atomic-shared-pointer/lib/structures/testing"
)

func TestStack(t *testing.T) {
	sttesting.RunContainerTests(t, "Stack", func() sttesting.Container[int] {
		return &structures.Stack[int]{}
	})
}

// TestStackLIFO pins the sequential ordering contract.
func TestStackLIFO(t *testing.T) {
	var s structures.Stack[int]
	for i := 0; i < 100; i++ {
		s.Push(i)
	}
	for i := 99; i >= 0; i-- {
		v, ok := s.Pop()
		if !ok || v != i {
			t.Fatalf("Pop = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestStackClose(t *testing.T) {
	var s structures.Stack[int]
	for i := 0; i < 1000; i++ {
		s.Push(i)
	}
	// Close drops the whole chain; must not blow the stack or wedge
	s.Close()
}

func BenchmarkStack(b *testing.B) {
	sttesting.RunContainerBenchmarks(b, "Stack", func() sttesting.Container[int] {
		return &structures.Stack[int]{}
	})
}
