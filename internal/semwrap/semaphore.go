package semwrap

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/giantswarm/keyedsem/internal/sentinel"
)

// Infinite is the timeout sentinel meaning "wait without a local deadline".
// It is still subject to the caller's context being canceled.
const Infinite time.Duration = -1

// ErrInvalidArgument is returned for a timeout other than Infinite or a
// non-negative duration.
const ErrInvalidArgument = sentinel.Error("semwrap: invalid timeout")

// WaitResult is the outcome of a TryAcquire call.
type WaitResult int

const (
	// Acquired means a permit was obtained.
	Acquired WaitResult = iota
	// TimedOut means the locally derived deadline elapsed without a permit
	// becoming available; the caller's context was not canceled.
	TimedOut
	// Cancelled means the caller's context was canceled (observed either
	// before the wait started or while waiting).
	Cancelled
)

// Semaphore is a counting semaphore with capacity max. It does not
// implement waiting/signaling itself; it wraps semaphore.Weighted and adds
// the timeout/cancellation vocabulary and permit bookkeeping this library's
// acquire orchestrator needs.
type Semaphore struct {
	w    *semaphore.Weighted
	max  int64
	held atomic.Int64
}

// New creates a Semaphore with the given number of permits. max must be >= 1;
// callers are expected to validate this at construction (see CountedConfig
// and StripedConfig.Validate), so New does not re-validate it.
func New(maxCount int) *Semaphore {
	return &Semaphore{w: semaphore.NewWeighted(int64(maxCount)), max: int64(maxCount)}
}

// TryAcquire attempts to obtain one permit.
//
//   - timeout == 0 is a non-blocking attempt.
//   - timeout == Infinite waits with no locally derived deadline (still
//     cancellable through ctx).
//   - any other timeout < 0 is rejected with ErrInvalidArgument.
//
// Cancellation is checked before touching any state: if ctx is already
// canceled, TryAcquire returns (Cancelled, ctx.Err()) without attempting
// the wait.
func (s *Semaphore) TryAcquire(ctx context.Context, timeout time.Duration) (WaitResult, error) {
	if timeout < 0 && timeout != Infinite {
		return 0, fmt.Errorf("%w: must be Infinite (-1) or >= 0, got %s", ErrInvalidArgument, timeout)
	}
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}

	if timeout == 0 {
		if s.w.TryAcquire(1) {
			s.held.Add(1)
			return Acquired, nil
		}
		return TimedOut, nil
	}

	waitCtx := ctx
	if timeout != Infinite {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := s.w.Acquire(waitCtx, 1); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return Cancelled, cerr
		}
		return TimedOut, nil
	}
	s.held.Add(1)
	return Acquired, nil
}

// Release returns one permit.
func (s *Semaphore) Release() {
	s.w.Release(1)
	s.held.Add(-1)
}

// Permits returns the number of free permits.
func (s *Semaphore) Permits() int64 {
	return s.max - s.held.Load()
}

// MaxCount returns the semaphore's total capacity.
func (s *Semaphore) MaxCount() int64 {
	return s.max
}

// Reset restores the semaphore to full permits. Used by the pool when a
// body is returned: a pooled body's semaphore is always expected to be at
// full permits already, so Reset is only ever a no-op defensive measure in
// the well-behaved path (the last releaser already released its permit
// before the body is returned to the pool).
func (s *Semaphore) Reset() {
	s.held.Store(0)
	s.w = semaphore.NewWeighted(s.max)
}
