package registry

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/giantswarm/keyedsem/internal/body"
	"github.com/giantswarm/keyedsem/internal/pool"
)

// Registry is the reference-counted key -> semaphore body mapping.
// A body is present in the map iff its refcount is >= 1; GetOrCreate and
// Release are the only writers, and both route through MapOf.Compute so
// the "entry exists with refcount > 0 -> increment" / "refcount drops to
// 0 -> remove and return to pool" transitions are each a single atomic
// per-key step, not a separate read then write.
type Registry[K comparable] struct {
	m        *xsync.MapOf[K, *body.Body]
	pool     *pool.Pool
	maxCount int
}

// New creates a Registry whose bodies have maxCount permits and are
// rented from/returned to pool. capacity, if > 0, is passed through as a
// size hint (xsync.WithPresize) for the backing map; 0 means no hint.
func New[K comparable](maxCount int, p *pool.Pool, capacity int) *Registry[K] {
	var opts []func(*xsync.MapConfig)
	if capacity > 0 {
		opts = append(opts, xsync.WithPresize(capacity))
	}
	return &Registry[K]{
		m:        xsync.NewMapOf[K, *body.Body](opts...),
		pool:     p,
		maxCount: maxCount,
	}
}

// GetOrCreate returns the live body for key, creating (renting from the
// pool) and binding one if none is live. The returned body's refcount has
// already been incremented on behalf of the caller; the caller must
// eventually call Release(key) exactly once to balance it.
func (r *Registry[K]) GetOrCreate(key K) *body.Body {
	actual, _ := r.m.Compute(key, func(old *body.Body, loaded bool) (*body.Body, bool) {
		if loaded && old.RefCount.Load() > 0 {
			old.RefCount.Add(1)
			return old, false
		}
		b := r.pool.Rent(key)
		b.RefCount.Store(1)
		return b, false
	})
	return actual
}

// Release decrements key's refcount. If it reaches zero, the entry is
// removed from the map and the body is returned to the pool. Both steps
// happen inside the same Compute call, so no other goroutine can observe
// the entry between the decrement and the removal.
//
// Release does not itself release a semaphore permit: the orchestrator
// releases the permit on body.Sem before calling Release, so that an
// IsInUse reader can never see "not in use" while a permit is still
// outstanding.
func (r *Registry[K]) Release(key K) {
	var drained *body.Body
	r.m.Compute(key, func(old *body.Body, loaded bool) (*body.Body, bool) {
		if !loaded {
			return old, true
		}
		if old.RefCount.Add(-1) <= 0 {
			drained = old
			return old, true
		}
		return old, false
	})
	if drained != nil {
		r.pool.Return(drained)
	}
}

// IsInUse reports whether key has a live entry. The bound-key double
// check defeats the race where a body has since been rented from the pool
// under a different key between the map lookup and this inspection.
func (r *Registry[K]) IsInUse(key K) bool {
	b, ok := r.m.Load(key)
	if !ok {
		return false
	}
	bound, ok := b.BoundKey().(K)
	if !ok || bound != key {
		return false
	}
	return b.RefCount.Load() > 0
}

// RemainingCount returns maxCount - free permits for key's body, or 0 if
// key has no live entry.
func (r *Registry[K]) RemainingCount(key K) int64 {
	b, ok := r.m.Load(key)
	if !ok {
		return 0
	}
	return int64(r.maxCount) - b.Sem.Permits()
}

// CurrentCount returns the free permits for key's body, or maxCount if key
// has no live entry.
func (r *Registry[K]) CurrentCount(key K) int64 {
	b, ok := r.m.Load(key)
	if !ok {
		return int64(r.maxCount)
	}
	return b.Sem.Permits()
}

// Keys returns a snapshot of every key with a live entry. Intended for
// tests and introspection.
func (r *Registry[K]) Keys() []K {
	keys := make([]K, 0, r.m.Size())
	r.m.Range(func(k K, _ *body.Body) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the number of live entries.
func (r *Registry[K]) Len() int {
	return r.m.Size()
}
