package structures_test

import (
	"sync"
	"testing"

	"github.com/ludaludaed/atomic-shared-pointer/lib/structures"
	sttesting "github.com/ludaludaed/atomic-shared-pointer/lib/structures/testing"
)

func TestQueue(t *testing.T) {
	sttesting.RunContainerTests(t, "Queue", func() sttesting.Container[int] {
		return structures.NewQueue[int]()
	})
}

// TestQueueFIFO pins the sequential ordering contract.
func TestQueueFIFO(t *testing.T) {
	q := structures.NewQueue[int]()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	for i := 0; i < 100; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	q.Close()
}

// TestQueuePerProducerOrder checks FIFO consistency per producer: with
// one consumer, each producer's values must come out in push order.
func TestQueuePerProducerOrder(t *testing.T) {
	const (
		producers = 4
		perProd   = 5000
	)
	q := structures.NewQueue[int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for seq := 0; seq < perProd; seq++ {
				q.Push(p<<32 | seq)
			}
		}(p)
	}
	wg.Wait()

	lastSeq := make([]int, producers)
	for i := range lastSeq {
		lastSeq[i] = -1
	}
	for i := 0; i < producers*perProd; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("queue ran dry after %d of %d values", i, producers*perProd)
		}
		p, seq := v>>32, v&0xffffffff
		if seq <= lastSeq[p] {
			t.Fatalf("producer %d: observed seq %d after %d", p, seq, lastSeq[p])
		}
		lastSeq[p] = seq
	}
	if _, ok := q.Pop(); ok {
		t.Errorf("queue not empty after draining every value")
	}
	q.Close()
}

func TestQueueClose(t *testing.T) {
	q := structures.NewQueue[int]()
	for i := 0; i < 1000; i++ {
		q.Push(i)
	}
	q.Close()
}

func BenchmarkQueue(b *testing.B) {
	sttesting.RunContainerBenchmarks(b, "Queue", func() sttesting.Container[int] {
		return structures.NewQueue[int]()
	})
}
