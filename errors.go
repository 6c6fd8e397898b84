package keyedsem

import "github.com/giantswarm/keyedsem/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
//
// These use the sentinel.Error const pattern instead of errors.New vars:
// a string type implementing error can be declared as const, preventing
// accidental reassignment, while remaining compatible with errors.Is
// through Go's default == comparison on comparable types.
const (
	// ErrInvalidArgument is returned by New constructors when construction
	// options are out of range (MaxCount < 1, PoolSize < 0, PoolInitialFill
	// outside [-1, PoolSize], or a negative stripe count); construction
	// fails synchronously and no state is allocated. The acquire methods
	// return it for a negative timeout other than Infinite.
	ErrInvalidArgument = sentinel.Error("keyedsem: invalid argument")

	// ErrCancelled is returned when the caller's context is canceled
	// before or during an acquire wait. Any reservation made on the
	// caller's behalf (the registry refcount bump for the counted
	// variant) is undone before this error is returned.
	ErrCancelled = sentinel.Error("keyedsem: acquire cancelled")

	// ErrClosed is returned by any acquire method called after Close.
	ErrClosed = sentinel.Error("keyedsem: locker closed")
)
