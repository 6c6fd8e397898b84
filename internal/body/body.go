package body

import (
	"sync/atomic"

	"github.com/giantswarm/keyedsem/internal/semwrap"
)

// Body is the record behind one key's (or one stripe's) semaphore.
//
//   - Sem is the counting semaphore permits are acquired/released on.
//   - RefCount tracks holders plus waiters for the counted registry; it is
//     unused (always left at its zero value) by the stripe table, whose
//     bodies are permanent and never refcounted.
//   - Key is the key currently bound to this body, used only by the
//     pool-reuse race check in the registry's IsInUse: a stale reader must
//     not conclude "in use" or "not in use" based on a body that has since
//     been rented out under a different key.
//   - InUseFlag is a diagnostic-only latch that must never be used to
//     reason about liveness, so nothing in this module reads it for
//     control flow. It exists so tests can assert that a stale InUseFlag
//     cannot corrupt IsInUse.
type Body struct {
	Sem       *semwrap.Semaphore
	RefCount  atomic.Int64
	Key       atomic.Value // holds any key bound by the registry/pool, or nil
	InUseFlag atomic.Bool
}

// New creates a detached Body (no key, refcount 0) with maxCount permits.
func New(maxCount int) *Body {
	return &Body{Sem: semwrap.New(maxCount)}
}

// BoundKey returns the key currently bound to this body, or nil if detached.
func (b *Body) BoundKey() any {
	v := b.Key.Load()
	if v == nil {
		return nil
	}
	return v.(keyBox).key
}

// Bind sets the key this body is bound to.
func (b *Body) Bind(key any) {
	b.Key.Store(keyBox{key})
}

// Detach clears the bound key, e.g. before returning to the pool.
func (b *Body) Detach() {
	b.Key.Store(keyBox{nil})
}

// keyBox wraps the bound key so atomic.Value.Store always sees the same
// concrete type across calls (atomic.Value panics if successive Store
// calls pass different dynamic types, which would happen with raw `any`
// whenever two different key types are bound across the body's lifetime
// as it cycles through the pool).
type keyBox struct{ key any }
