package keyedsem

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/giantswarm/keyedsem/internal/semwrap"
	"github.com/giantswarm/keyedsem/internal/stripe"
)

// StripedLocker is the fixed-size keyed semaphore: a permanent array of
// bodies, sized to the first tabled prime >= the requested stripe count, with
// keys hashed onto stripes. Distinct keys may collide onto the same
// stripe, trading stronger-than-necessary exclusion for O(1) space and no
// per-key allocation.
type StripedLocker[K comparable] struct {
	cfg    StripedConfig[K]
	table  *stripe.Table[K]
	closed atomic.Bool
}

// NewStripedLocker builds a StripedLocker. Returns ErrInvalidArgument if
// the resolved configuration fails Validate.
func NewStripedLocker[K comparable](opts ...StripedOption[K]) (*StripedLocker[K], error) {
	cfg := defaultStripedConfig[K]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t, err := stripe.New[K](cfg.NumberOfStripes, cfg.MaxCount, cfg.Hasher)
	if err != nil {
		return nil, err
	}
	return &StripedLocker[K]{cfg: cfg, table: t}, nil
}

// Lock blocks until a permit for key's stripe is available or ctx is
// canceled.
func (l *StripedLocker[K]) Lock(ctx context.Context, key K) (*Releaser, error) {
	r, err := l.TryLock(ctx, key, Infinite)
	if err != nil {
		return nil, err
	}
	if !r.Entered() {
		return nil, ErrCancelled
	}
	return r, nil
}

// TryLock attempts to acquire key's stripe permit within timeout (or
// [Infinite]). See CountedLocker.TryLock for the Releaser/error contract.
func (l *StripedLocker[K]) TryLock(ctx context.Context, key K, timeout time.Duration) (*Releaser, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	b := l.table.Body(key)
	if b == nil {
		// Requested zero stripes: a deliberately empty, no-op table grants
		// every acquire immediately.
		return &Releaser{entered: true, release: func() {}}, nil
	}

	result, err := b.Sem.TryAcquire(ctx, timeout)
	if err != nil {
		if result == semwrap.Cancelled {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	switch result {
	case semwrap.Acquired:
		return &Releaser{entered: true, release: b.Sem.Release}, nil
	case semwrap.Cancelled:
		return nil, ErrCancelled
	default: // TimedOut
		return inertReleaser(), nil
	}
}

// LockOrNil behaves like TryLock, but reports a timeout by returning a nil
// Releaser and a nil error instead of an inert one.
func (l *StripedLocker[K]) LockOrNil(ctx context.Context, key K, timeout time.Duration) (*Releaser, error) {
	r, err := l.TryLock(ctx, key, timeout)
	if err != nil {
		return nil, err
	}
	if !r.Entered() {
		return nil, nil
	}
	return r, nil
}

// WithCallback runs fn with key's stripe permit held, then releases it.
func (l *StripedLocker[K]) WithCallback(ctx context.Context, key K, timeout time.Duration, fn func()) (bool, error) {
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

// WithCallbackAsync runs WithCallback in its own goroutine, reporting the
// outcome on the returned channel.
func (l *StripedLocker[K]) WithCallbackAsync(ctx context.Context, key K, timeout time.Duration, fn func()) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		defer close(out)
		called, err := l.WithCallback(ctx, key, timeout, fn)
		out <- AsyncResult{Called: called, Err: err}
	}()
	return out
}

// ConditionalLock acquires key's stripe permit only if condition is true.
func (l *StripedLocker[K]) ConditionalLock(ctx context.Context, key K, condition bool) (*Releaser, error) {
	if !condition {
		return inertReleaser(), nil
	}
	return l.Lock(ctx, key)
}

// IsInUse reports whether key's stripe currently has any permit checked
// out. Because distinct keys can share a stripe, this can report true for
// a key that was never itself locked.
func (l *StripedLocker[K]) IsInUse(key K) bool {
	return l.table.IsInUse(key)
}

// NumberOfStripes returns the realized stripe count (the first tabled
// prime >= the requested count, or 0 for a deliberately empty table).
func (l *StripedLocker[K]) NumberOfStripes() int {
	return l.table.NumberOfStripes()
}

// RequestedStripes returns the stripe count originally requested, before
// prime rounding.
func (l *StripedLocker[K]) RequestedStripes() int {
	return l.table.RequestedStripes()
}

// MaxCount returns the configured number of concurrent holders permitted
// per stripe.
func (l *StripedLocker[K]) MaxCount() int {
	return l.cfg.MaxCount
}

// Close marks the locker as closed: every subsequent acquire method
// returns ErrClosed (WithCallbackAsync reports it in its AsyncResult),
// except ConditionalLock with a false condition, which still returns an
// inert Releaser. Safe to call more than once.
func (l *StripedLocker[K]) Close() {
	l.closed.Store(true)
}

// Closed reports whether Close has been called.
func (l *StripedLocker[K]) Closed() bool {
	return l.closed.Load()
}
