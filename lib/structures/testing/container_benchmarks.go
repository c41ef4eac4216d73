package testing

import (
	"math/rand"
	"testing"
)

// RunContainerBenchmarks runs the benchmark suite against a container
// implementation.
func RunContainerBenchmarks(b *testing.B, name string, factory ContainerFactory) {
	b.Run(name+"/Push", func(b *testing.B) {
		benchmarkPush(b, factory())
	})

	b.Run(name+"/PushPop", func(b *testing.B) {
		benchmarkPushPop(b, factory())
	})

	b.Run(name+"/Mixed", func(b *testing.B) {
		benchmarkMixed(b, factory())
	})
}

func benchmarkPush(b *testing.B, c Container[int]) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Push(i)
			i++
		}
	})
}

func benchmarkPushPop(b *testing.B, c Container[int]) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Push(i)
			c.Pop()
			i++
		}
	})
}

func benchmarkMixed(b *testing.B, c Container[int]) {
	// Pre-fill so pops have something to chew on
	for i := 0; i < 1024; i++ {
		c.Push(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			if rng.Intn(2) == 0 {
				c.Push(rng.Int())
			} else {
				c.Pop()
			}
		}
	})
}
