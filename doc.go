// Package keyedsem provides keyed semaphores: per-key mutual exclusion (or
// bounded-concurrency permits) for callers who supply an arbitrary
// comparable key without managing a synchronization object's lifecycle
// themselves. A semaphore is created transparently on first use, shared by
// every concurrent holder of the same key, and disposed of when the last
// holder departs.
//
// Two variants are provided:
//
//   - [CountedLocker] is an unbounded, reference-counted key -> semaphore
//     registry: a semaphore exists exactly while at least one caller holds
//     or is waiting for it.
//   - [StripedLocker] is a fixed-size array of permanent semaphores; keys
//     are hashed onto stripes, so distinct keys may collide (stronger than
//     necessary exclusion, in exchange for O(1) space and no per-key
//     allocation).
//
// Both variants share the same acquire vocabulary: [CountedLocker.Lock] and
// [StripedLocker.Lock] block indefinitely (cancellable via ctx);
// [CountedLocker.TryLock]/[StripedLocker.TryLock] take a timeout and report
// success via [Releaser.Entered]; [CountedLocker.LockOrNil]/
// [StripedLocker.LockOrNil] report a timeout by returning a nil Releaser
// instead; [CountedLocker.WithCallback]/[StripedLocker.WithCallback] run a
// caller-supplied function with the lock held and release it automatically;
// and [CountedLocker.ConditionalLock]/[StripedLocker.ConditionalLock] let a
// caller express recursion by skipping the acquisition on nested calls.
//
// There is no fairness guarantee beyond what the underlying semaphore
// provides, no cross-process coordination, no deadlock detection, and no
// reentrancy by goroutine identity: recursion is expressed explicitly via
// ConditionalLock.
package keyedsem
