package keyedsem

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/giantswarm/keyedsem/internal/stripe"
)

// Infinite is the acquire timeout sentinel meaning "wait without a locally
// derived deadline" (still cancellable through the caller's context).
// time.Duration has no built-in "infinite" value, so this is an explicit
// sentinel rather than a runtime convention.
const Infinite time.Duration = -1

// requirePositive panics if v <= 0. Reserved for tuning knobs with no
// dedicated error path, where an invalid value is a programmer error
// caught at the call site rather than one reported by Validate.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("keyedsem: %s must be greater than 0, got %v", name, v))
	}
}

// CountedConfig holds construction options for CountedLocker.
type CountedConfig struct {
	// MaxCount is the configured number of concurrent holders permitted
	// per key. Must be >= 1. Default: 1.
	MaxCount int

	// PoolSize bounds the semaphore-body pool (P). 0 disables pooling:
	// every acquire allocates a fresh body and every final release drops
	// it. Default: 20.
	PoolSize int

	// PoolInitialFill is the number of bodies to prefill the pool with
	// (F). Must be in {-1} ∪ [0, PoolSize]; -1 means "fill to PoolSize".
	// Default: -1.
	PoolInitialFill int

	// ConcurrencyLevel is an advisory hint for the expected number of
	// goroutines contending on the registry concurrently. Default: the
	// number of logical CPUs. xsync.MapOf shards adaptively rather than
	// taking a fixed concurrency level, so this is currently informational
	// only, exposed for forward compatibility.
	ConcurrencyLevel int

	// Capacity is an initial size hint for the registry's backing map,
	// passed through as xsync.WithPresize. Default: 0 (no hint).
	Capacity int
}

// Validate checks every CountedConfig invariant and returns an error
// describing every violation found via errors.Join, mirroring the
// teacher's ManagerConfig.Validate: report everything wrong in one pass
// rather than one error at a time.
func (c CountedConfig) Validate() error {
	var errs []error
	if c.MaxCount < 1 {
		errs = append(errs, fmt.Errorf("%w: max count must be >= 1, got %d", ErrInvalidArgument, c.MaxCount))
	}
	if c.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("%w: pool size must not be negative, got %d", ErrInvalidArgument, c.PoolSize))
	}
	if c.PoolInitialFill < -1 || (c.PoolSize >= 0 && c.PoolInitialFill > c.PoolSize) {
		errs = append(errs, fmt.Errorf(
			"%w: pool initial fill must be -1 or in [0, pool size], got %d (pool size %d)",
			ErrInvalidArgument, c.PoolInitialFill, c.PoolSize))
	}
	return errors.Join(errs...)
}

func defaultCountedConfig() CountedConfig {
	return CountedConfig{
		MaxCount:         1,
		PoolSize:         20,
		PoolInitialFill:  -1,
		ConcurrencyLevel: runtime.NumCPU(),
	}
}

// CountedOption configures a CountedLocker during construction via
// NewCountedLocker.
type CountedOption func(*CountedConfig)

// WithMaxCount sets the number of concurrent holders permitted per key.
func WithMaxCount(n int) CountedOption {
	return func(c *CountedConfig) { c.MaxCount = n }
}

// WithPoolSize bounds the semaphore-body pool.
func WithPoolSize(n int) CountedOption {
	return func(c *CountedConfig) { c.PoolSize = n }
}

// WithPoolInitialFill sets the pool's initial prefill count.
func WithPoolInitialFill(n int) CountedOption {
	return func(c *CountedConfig) { c.PoolInitialFill = n }
}

// WithConcurrencyLevel sets the advisory expected-concurrency hint.
// Panics if n <= 0: this is a tuning knob, not a validated construction
// parameter (see CountedConfig.ConcurrencyLevel).
func WithConcurrencyLevel(n int) CountedOption {
	requirePositive("concurrency level", n)
	return func(c *CountedConfig) { c.ConcurrencyLevel = n }
}

// WithCapacity sets the registry's initial size hint.
// Panics if n <= 0.
func WithCapacity(n int) CountedOption {
	requirePositive("capacity", n)
	return func(c *CountedConfig) { c.Capacity = n }
}

// StripedConfig holds construction options for StripedLocker.
type StripedConfig[K comparable] struct {
	// NumberOfStripes is the requested stripe count; the realized count is
	// the first tabled prime >= this value (0 is a special case: an empty,
	// no-op table). Default: the number of logical CPUs.
	NumberOfStripes int

	// MaxCount is the number of concurrent holders permitted per stripe.
	// Must be >= 1. Default: 1.
	MaxCount int

	// Hasher computes the stripe index for a key. Default:
	// hash/maphash.Comparable-backed (see internal/stripe.DefaultHasher).
	Hasher stripe.Hasher[K]
}

// Validate checks every StripedConfig invariant and returns an error
// describing every violation found.
func (c StripedConfig[K]) Validate() error {
	var errs []error
	if c.NumberOfStripes < 0 {
		errs = append(errs, fmt.Errorf("%w: number of stripes must not be negative, got %d", ErrInvalidArgument, c.NumberOfStripes))
	}
	if c.MaxCount < 1 {
		errs = append(errs, fmt.Errorf("%w: max count must be >= 1, got %d", ErrInvalidArgument, c.MaxCount))
	}
	return errors.Join(errs...)
}

func defaultStripedConfig[K comparable]() StripedConfig[K] {
	return StripedConfig[K]{
		NumberOfStripes: runtime.NumCPU(),
		MaxCount:        1,
	}
}

// StripedOption configures a StripedLocker during construction via
// NewStripedLocker.
type StripedOption[K comparable] func(*StripedConfig[K])

// WithNumberOfStripes sets the requested stripe count.
func WithNumberOfStripes[K comparable](n int) StripedOption[K] {
	return func(c *StripedConfig[K]) { c.NumberOfStripes = n }
}

// WithStripedMaxCount sets the number of concurrent holders permitted per
// stripe.
func WithStripedMaxCount[K comparable](n int) StripedOption[K] {
	return func(c *StripedConfig[K]) { c.MaxCount = n }
}

// WithHasher sets the hash function used to assign keys to stripes.
// Panics if hasher is nil.
func WithHasher[K comparable](hasher stripe.Hasher[K]) StripedOption[K] {
	if hasher == nil {
		panic("keyedsem: hasher must not be nil")
	}
	return func(c *StripedConfig[K]) { c.Hasher = hasher }
}
