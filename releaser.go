package keyedsem

import "sync"

// Releaser is the scoped-acquisition handle returned by every successful
// (and every timed-out or conditional) acquire. Releasing it is the sole
// way to relinquish a permit and, for the counted variant, decrement the
// key's reference count.
//
// Release is idempotent: calling it more than once, or concurrently from
// multiple goroutines, performs the underlying release at most once. A
// Releaser whose Entered() is false (a timed-out TryLock, or the inert
// handle ConditionalLock hands back when its condition is false) owns
// nothing, so Release is a no-op for it.
//
// Go has no semaphore "dispose" operation to race against, so the
// pool-return/release ordering collapses here to plain Release
// idempotency, which sync.Once guarantees unconditionally — there is
// nothing left to swallow.
type Releaser struct {
	once    sync.Once
	entered bool
	release func()
}

// Entered reports whether this Releaser's wait succeeded: true for a
// normal acquisition, false for a timed-out TryLock or an inert
// ConditionalLock handle.
func (r *Releaser) Entered() bool {
	return r.entered
}

// Release relinquishes the permit this Releaser owns, if any. Safe to call
// any number of times, from any number of goroutines.
func (r *Releaser) Release() {
	r.once.Do(func() {
		if r.entered && r.release != nil {
			r.release()
		}
	})
}

// inertReleaser returns a Releaser that owns nothing: Release on it is
// always a no-op. Used for conditional locks whose condition is false and
// for timed-out acquisitions (entered == false).
func inertReleaser() *Releaser {
	return &Releaser{entered: false}
}
