// Package shared provides reference-counted shared-ownership pointers
// with lock-free atomic cells, backed by the hazptr reclamation domain.
//
// The package focuses on:
//   - Deterministic disposal: a value's disposer runs exactly once, when
//     the last strong reference drops, regardless of interleaving
//   - Lock-free atomic cells: Atomic and AtomicWeak support concurrent
//     Load, Store, Swap and CompareAndSwap without locks
//   - Safe concurrent replacement: replacing the pointer held by a cell
//     defers the displaced reference drop through hazard pointers, so a
//     racing Load can never observe a freed control block
//   - Weak references: non-owning handles that can be promoted back to
//     owning ones for as long as the value is alive
//
// Key Components:
//
//   - Ptr: the owning handle. Copies are made explicitly with Clone
//     (incrementing the strong count) and dropped with Release. Created
//     by Make/MakeWith (value embedded in the control block), MakeIn
//     (pool-recycled control block) or Adopt (caller-allocated value
//     with a disposer).
//
//   - Weak: the non-owning handle. Lock promotes it to a Ptr through a
//     conditional increment that fails once the strong count has hit
//     zero, so a promotion can never resurrect a dead value.
//
//   - Atomic / AtomicWeak: word-sized lock-free cells holding one strong
//     (resp. weak) reference. Store, Swap and a successful CompareAndSwap
//     consume the handle they are given; Load returns a freshly owned
//     handle.
//
// Internal Mechanisms:
//
//   - Control block: one allocation carrying the strong and weak
//     counters plus type-erased destroy/dispose hooks. The weak counter
//     holds an extra unit owned collectively by all strong references;
//     it drops when the strong count reaches zero. When the weak counter
//     follows, a MakeIn block returns to its pool; other blocks are
//     simply left to the garbage collector.
//
//   - Deferred cell drops: a cell never decrements the displaced
//     reference inline. The decrement is retired through the hazptr
//     domain and executes only after every hazard slot has been observed
//     clear of the block, closing the load-versus-destroy race inherent
//     to naive atomic shared pointers.
//
//   - Flattened destruction: the terminal strong decrement does not
//     destroy recursively. Blocks are pushed onto a process-wide
//     intrusive stack and drained iteratively behind a gate, so dropping
//     a million-node linked structure uses constant stack depth.
//
// Strong reference cycles are not collected; break cycles with Weak.
package shared
