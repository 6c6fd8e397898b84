package keyedsem

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/giantswarm/keyedsem/internal/pool"
	"github.com/giantswarm/keyedsem/internal/registry"
	"github.com/giantswarm/keyedsem/internal/semwrap"
)

// CountedLocker is the unbounded, reference-counted keyed semaphore: a
// body exists for key exactly while at least one caller holds or is
// waiting for it, and is returned to an internal pool the instant the
// last holder departs.
type CountedLocker[K comparable] struct {
	cfg      CountedConfig
	registry *registry.Registry[K]
	closed   atomic.Bool
}

// NewCountedLocker builds a CountedLocker. Returns ErrInvalidArgument if the
// resolved configuration fails Validate.
func NewCountedLocker[K comparable](opts ...CountedOption) (*CountedLocker[K], error) {
	cfg := defaultCountedConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := pool.New(cfg.PoolSize, cfg.PoolInitialFill, cfg.MaxCount)
	return &CountedLocker[K]{
		cfg:      cfg,
		registry: registry.New[K](cfg.MaxCount, p, cfg.Capacity),
	}, nil
}

// Lock blocks until a permit for key is available or ctx is canceled.
// Equivalent to TryLock(ctx, key, Infinite): a cancellation is reported as
// ErrCancelled, and a returned Releaser is always entered.
func (l *CountedLocker[K]) Lock(ctx context.Context, key K) (*Releaser, error) {
	r, err := l.TryLock(ctx, key, Infinite)
	if err != nil {
		return nil, err
	}
	if !r.Entered() {
		// Infinite never times out; reaching here without entering means
		// the wait was canceled, which TryLock already reports as an
		// error. Kept for defensive clarity, not expected to trigger.
		return nil, ErrCancelled
	}
	return r, nil
}

// TryLock attempts to acquire key's permit within timeout (or
// [Infinite]). A successful acquisition returns a Releaser with Entered()
// true; a timeout returns a Releaser with Entered() false and a nil error;
// cancellation returns a nil Releaser and ErrCancelled.
func (l *CountedLocker[K]) TryLock(ctx context.Context, key K, timeout time.Duration) (*Releaser, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	b := l.registry.GetOrCreate(key)
	result, err := b.Sem.TryAcquire(ctx, timeout)
	if err != nil {
		l.registry.Release(key)
		if result == semwrap.Cancelled {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if result == semwrap.Acquired {
		return &Releaser{
			entered: true,
			release: func() {
				b.Sem.Release()
				l.registry.Release(key)
			},
		}, nil
	}

	// TimedOut or Cancelled: undo the registry reservation before
	// reporting the outcome.
	l.registry.Release(key)
	if result == semwrap.Cancelled {
		return nil, ErrCancelled
	}
	return inertReleaser(), nil
}

// LockOrNil behaves like TryLock, but reports a timeout by returning a nil
// Releaser and a nil error instead of an inert one. Cancellation is still
// reported as an error.
func (l *CountedLocker[K]) LockOrNil(ctx context.Context, key K, timeout time.Duration) (*Releaser, error) {
	r, err := l.TryLock(ctx, key, timeout)
	if err != nil {
		return nil, err
	}
	if !r.Entered() {
		return nil, nil
	}
	return r, nil
}

// WithCallback runs fn with key's permit held, then releases it. Returns
// true if fn was called. A timeout is reported as (false, nil); a
// cancellation as (false, err).
func (l *CountedLocker[K]) WithCallback(ctx context.Context, key K, timeout time.Duration, fn func()) (bool, error) {
	r, err := l.TryLock(ctx, key, timeout)
	if err != nil {
		return false, err
	}
	if !r.Entered() {
		return false, nil
	}
	defer r.Release()
	fn()
	return true, nil
}

// AsyncResult is the outcome delivered on the channel WithCallbackAsync
// returns.
type AsyncResult struct {
	// Called reports whether the callback was invoked.
	Called bool
	// Err is set on cancellation; nil on a successful call or a timeout.
	Err error
}

// WithCallbackAsync runs WithCallback in its own goroutine and reports the
// outcome on the returned channel, which is closed after exactly one send.
// Intended for fanning out many keys concurrently, e.g. via
// golang.org/x/sync/errgroup at the call site.
func (l *CountedLocker[K]) WithCallbackAsync(ctx context.Context, key K, timeout time.Duration, fn func()) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		defer close(out)
		called, err := l.WithCallback(ctx, key, timeout, fn)
		out <- AsyncResult{Called: called, Err: err}
	}()
	return out
}

// ConditionalLock acquires key's permit only if condition is true; if
// condition is false, it returns an inert Releaser (Entered() false,
// Release() a no-op) without touching the registry at all. This is the
// vocabulary for expressing recursive acquisition: a caller already
// holding key's lock passes false on the nested call.
func (l *CountedLocker[K]) ConditionalLock(ctx context.Context, key K, condition bool) (*Releaser, error) {
	if !condition {
		return inertReleaser(), nil
	}
	return l.Lock(ctx, key)
}

// IsInUse reports whether key currently has a live entry (held or
// contended). Diagnostic/introspection only: the result can be stale the
// instant it is observed under concurrent use.
func (l *CountedLocker[K]) IsInUse(key K) bool {
	return l.registry.IsInUse(key)
}

// RemainingCount returns the number of permits currently checked out for
// key (0 if key has no live entry).
func (l *CountedLocker[K]) RemainingCount(key K) int64 {
	return l.registry.RemainingCount(key)
}

// CurrentCount returns the number of free permits for key (MaxCount if key
// has no live entry).
func (l *CountedLocker[K]) CurrentCount(key K) int64 {
	return l.registry.CurrentCount(key)
}

// Keys returns a snapshot of every key with a live entry.
func (l *CountedLocker[K]) Keys() []K {
	return l.registry.Keys()
}

// Index returns the number of keys with a live entry.
func (l *CountedLocker[K]) Index() int {
	return l.registry.Len()
}

// MaxCount returns the configured number of concurrent holders permitted
// per key.
func (l *CountedLocker[K]) MaxCount() int {
	return l.cfg.MaxCount
}

// Close marks the locker as closed: every subsequent Lock/TryLock/
// LockOrNil/WithCallback call, and ConditionalLock with a true condition,
// returns ErrClosed; WithCallbackAsync reports ErrClosed in its
// AsyncResult. ConditionalLock with a false condition still returns an
// inert Releaser. Safe to call more than once; only the first call has any
// effect. Close does not wait for or cancel in-flight acquisitions, and
// does not invalidate Releasers already handed out.
func (l *CountedLocker[K]) Close() {
	l.closed.Store(true)
}

// Closed reports whether Close has been called.
func (l *CountedLocker[K]) Closed() bool {
	return l.closed.Load()
}
