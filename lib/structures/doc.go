// Package structures provides lock-free containers built on the shared
// package's atomic pointers: a Treiber stack and a Michael–Scott queue.
//
// Both containers manage node lifetime entirely through shared.Ptr and
// shared.Atomic. No node is ever freed while another goroutine can still
// reach it, and no ABA countermeasures are needed: a node's address
// cannot be recycled while any handle or hazard still covers it.
//
// The containers are unbounded and safe for any number of concurrent
// producers and consumers. Pop returns ok=false on an empty container
// rather than blocking.
package structures
