// Package hazptr implements a hazard-pointer safe-memory-reclamation
// domain. It lets concurrent readers publish the pointer they are about
// to dereference so that concurrent writers can defer disposal of the
// pointee until no reader still references it.
//
// The package focuses on:
//   - Lock-free protection and retirement on the fast path
//   - Bounded memory overhead through fixed-capacity retired lists and
//     amortized scanning (a scan every ScanDelay guard releases)
//   - Cooperative cleanup: retired objects left behind by a released
//     slot owner are drained by the next help-scan (a periodic guard
//     release or Drain)
//   - Type-erased disposal so arbitrary object types can be retired
//     through one domain
//
// Key Components:
//
//   - Domain: the reclamation authority. It owns a registry of entries,
//     each holding a pool of hazard slots and a retired list. A Domain is
//     configured once with a Policy; the process-wide default is
//     available via Global().
//
//   - Guard: a scoped handle returned by Protect. While a Guard is live,
//     no scan disposes an object whose address equals the guarded
//     pointer. Releasing the Guard returns its hazard slot and
//     periodically triggers a scan.
//
//   - Retire: hands an object plus its disposer to the Domain. The
//     disposer runs only after a full pass over every hazard slot in the
//     registry has observed the object unprotected.
//
// Internal Mechanisms:
//
//   - Entry registry: an append-only lock-free singly linked list of
//     entries. An entry is exclusively owned while its active flag is
//     set; ownership is taken with a CAS and returned with an atomic
//     store. Entries are never freed, only recycled, so registry
//     iteration needs no synchronization beyond atomic loads.
//
//   - Protection protocol: Protect publishes the candidate pointer into
//     a hazard slot and then re-reads the source. Only when the re-read
//     observes the same value is the Guard returned; otherwise the loop
//     repeats. Scanners therefore cannot miss a hazard that was
//     published before the pointer was unlinked.
//
//   - Scan: the local retired list is sorted by address and every hazard
//     slot in the registry is matched against it with a binary search.
//     Unmatched entries are disposed; matched entries are compacted back
//     and tried again on a later scan. The periodic scan of a guard
//     release, and Drain, are followed by a help-scan that adopts the
//     retired lists of released entries so that nothing is stranded; the
//     scan a full retired list forces inside Retire is not.
package hazptr
