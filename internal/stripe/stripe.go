package stripe

import (
	"fmt"
	"hash/maphash"

	"github.com/giantswarm/keyedsem/internal/body"
	"github.com/giantswarm/keyedsem/internal/prime"
	"github.com/giantswarm/keyedsem/internal/sentinel"
)

// ErrInvalidArgument is returned by New for a negative stripe count.
const ErrInvalidArgument = sentinel.Error("stripe: number of stripes must be >= 0")

// defaultSeed seeds the default Hasher. A single process-lifetime seed is
// fine here: unlike a public hash map exposed to adversarial input, stripe
// assignment only needs to be stable for the table's own lifetime, not
// resistant to hash-flooding.
var defaultSeed = maphash.MakeSeed()

// Hasher computes a stable hash for a key. The default, used when New is
// not given one, is hash/maphash.Comparable — the stdlib function added in
// Go 1.24 specifically for hashing an arbitrary comparable value; no
// library in the example corpus offers that generically, so this is the
// one place this module reaches past the ecosystem into the standard
// library by necessity rather than convenience.
type Hasher[K comparable] func(key K) uint64

// DefaultHasher returns the maphash.Comparable-backed Hasher used when New
// is not given one explicitly.
func DefaultHasher[K comparable]() Hasher[K] {
	return func(key K) uint64 {
		return maphash.Comparable(defaultSeed, key)
	}
}

// Table is the striped keyed locker's fixed-size array of permanent
// semaphore bodies. Bodies are created once at construction and live until
// the table is discarded; RefCount is never used.
type Table[K comparable] struct {
	bodies    []*body.Body
	requested int
	n         int // realised stripe count (0 means "no-op table")
	maxCount  int
	hasher    Hasher[K]
}

// New builds a Table sized to prime.GetPrime(numberOfStripes), the first
// tabled prime >= numberOfStripes, except
// for the explicit special case numberOfStripes == 0: requesting zero
// stripes yields an empty, no-op table rather than being rounded up to the
// table's first prime (3). Negative counts fail with ErrInvalidArgument.
func New[K comparable](numberOfStripes, maxCount int, hasher Hasher[K]) (*Table[K], error) {
	if numberOfStripes < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidArgument, numberOfStripes)
	}
	if hasher == nil {
		hasher = DefaultHasher[K]()
	}

	t := &Table[K]{requested: numberOfStripes, maxCount: maxCount, hasher: hasher}
	if numberOfStripes == 0 {
		return t, nil
	}

	n, err := prime.GetPrime(numberOfStripes)
	if err != nil {
		return nil, err
	}
	t.n = n
	t.bodies = make([]*body.Body, n)
	for i := range t.bodies {
		t.bodies[i] = body.New(maxCount)
	}
	return t, nil
}

// StripeOf returns the index of the stripe key hashes onto, or -1 if the
// table is empty (numberOfStripes == 0).
func (t *Table[K]) StripeOf(key K) int {
	if t.n == 0 {
		return -1
	}
	h := t.hasher(key)
	return int(h % uint64(t.n))
}

// Body returns the body for key's stripe, or nil if the table is empty.
func (t *Table[K]) Body(key K) *body.Body {
	idx := t.StripeOf(key)
	if idx < 0 {
		return nil
	}
	return t.bodies[idx]
}

// IsInUse reports whether key's stripe currently has any permit checked
// out.
func (t *Table[K]) IsInUse(key K) bool {
	b := t.Body(key)
	if b == nil {
		return false
	}
	return b.Sem.Permits() < int64(t.maxCount)
}

// NumberOfStripes returns the realised stripe count N.
func (t *Table[K]) NumberOfStripes() int {
	return t.n
}

// RequestedStripes returns the stripe count originally requested, before
// prime rounding.
func (t *Table[K]) RequestedStripes() int {
	return t.requested
}

// MaxCount returns the configured permits per stripe.
func (t *Table[K]) MaxCount() int {
	return t.maxCount
}
