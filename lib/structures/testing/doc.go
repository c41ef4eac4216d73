// Package testing provides reusable test and benchmark suites for
// concurrent Push/Pop containers. Implementations hook their factory
// into RunContainerTests and RunContainerBenchmarks to get uniform
// coverage: sequential semantics, empty behavior, and a randomized
// multi-goroutine stress that checks multiset conservation (everything
// pushed is popped or still drainable, nothing duplicated, nothing
// lost).
package testing
