package testing

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/puzpuzpuz/xsync/v3"
)

// Container is the surface the suites exercise.
type Container[T any] interface {
	Push(T)
	Pop() (T, bool)
}

// ContainerFactory creates a fresh container per subtest.
type ContainerFactory func() Container[int]

// RunContainerTests runs the full test suite against a container
// implementation.
func RunContainerTests(t *testing.T, name string, factory ContainerFactory) {
	t.Run(name+"/Sequential", func(t *testing.T) {
		testSequential(t, factory())
	})

	t.Run(name+"/EmptyPop", func(t *testing.T) {
		testEmptyPop(t, factory())
	})

	for _, goroutines := range []int{1, 2, 4, 8} {
		goroutines := goroutines
		t.Run(fmt.Sprintf("%s/Stress-%d", name, goroutines), func(t *testing.T) {
			testStress(t, factory(), goroutines, 20000)
		})
	}
}

func testSequential(t *testing.T, c Container[int]) {
	const n = 1000

	// Push n values
	for i := 0; i < n; i++ {
		c.Push(i)
	}

	// Pop them all back; ordering is the container's business, the
	// suite only counts
	for i := 0; i < n; i++ {
		if _, ok := c.Pop(); !ok {
			t.Fatalf("Pop %d reported empty, want %d values", i, n)
		}
	}

	// Container must now be empty
	if v, ok := c.Pop(); ok {
		t.Errorf("Pop on drained container returned %d, want empty", v)
	}
}

func testEmptyPop(t *testing.T, c Container[int]) {
	if v, ok := c.Pop(); ok {
		t.Errorf("Pop on fresh container returned %d, want empty", v)
	}

	// Emptiness must be repeatable and survive a push/pop cycle
	c.Push(42)
	if v, ok := c.Pop(); !ok || v != 42 {
		t.Fatalf("Pop = (%d, %v), want (42, true)", v, ok)
	}
	if _, ok := c.Pop(); ok {
		t.Errorf("container not empty after push/pop cycle")
	}
}

// testStress runs goroutines doing a random mix of pushes and pops and
// verifies multiset conservation: pushed == popped + drained.
func testStress(t *testing.T, c Container[int], goroutines, opsPerGoroutine int) {
	// balance counts +1 per push, -1 per pop of each value
	balance := xsync.NewMapOf[int, int]()
	record := func(value, delta int) {
		balance.Compute(value, func(old int, _ bool) (int, bool) {
			return old + delta, false
		})
	}

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerGoroutine; i++ {
				if rng.Intn(2) == 0 {
					value := rng.Intn(1 << 20)
					c.Push(value)
					record(value, 1)
				} else {
					if value, ok := c.Pop(); ok {
						record(value, -1)
					}
				}
			}
		}(int64(g) + 1)
	}
	wg.Wait()

	// Drain what the workers left behind
	for {
		value, ok := c.Pop()
		if !ok {
			break
		}
		record(value, -1)
	}

	balance.Range(func(value, count int) bool {
		if count != 0 {
			t.Errorf("value %d: pushed-popped balance = %d, want 0", value, count)
		}
		return true
	})
}
