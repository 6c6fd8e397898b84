// Package semwrap wraps golang.org/x/sync/semaphore.Weighted with the
// uniform timed/cancellable wait semantics the acquire orchestrator needs:
// a three-way Acquired/TimedOut/Cancelled result instead of a bare error,
// and a Permits accessor for introspection (max_count - held).
package semwrap
