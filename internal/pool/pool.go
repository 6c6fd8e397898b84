package pool

import (
	"sync"

	"github.com/giantswarm/keyedsem/internal/body"
	"github.com/giantswarm/keyedsem/internal/diag"
)

// Pool is a bounded, concurrency-safe LIFO cache of detached semaphore
// bodies: a mutex-guarded slice with pop-from-the-end/push-to-the-end
// semantics. The counted registry, not the pool, is what bounds concurrent
// holders per key.
type Pool struct {
	mu   sync.Mutex
	free []*body.Body

	capacity int // P: 0 disables pooling.
	maxCount int // M: permits per freshly allocated body.
}

// New creates a Pool with the given capacity and initial prefill.
// initialFill == -1 means "fill to capacity". capacity == 0 disables
// pooling: every Rent allocates, every Return drops.
//
// Callers are expected to have validated capacity >= 0 and initialFill in
// {-1} ∪ [0, capacity] via CountedConfig.Validate before calling New.
func New(capacity, initialFill, maxCount int) *Pool {
	if initialFill == -1 {
		initialFill = capacity
	}

	p := &Pool{capacity: capacity, maxCount: maxCount}
	if capacity > 0 {
		p.free = make([]*body.Body, 0, capacity)
		for range initialFill {
			p.free = append(p.free, body.New(maxCount))
		}
	}
	return p
}

// Rent returns a body bound to key: a detached body from the free stack if
// one is available, otherwise a freshly allocated one. A body returned by
// Return always has its semaphore at full permits, so Rent does not
// re-verify that invariant.
func (p *Pool) Rent(key any) *body.Body {
	if p.capacity > 0 {
		p.mu.Lock()
		if n := len(p.free); n > 0 {
			b := p.free[n-1]
			p.free[n-1] = nil
			p.free = p.free[:n-1]
			p.mu.Unlock()
			b.Bind(key)
			return b
		}
		p.mu.Unlock()
	}

	b := body.New(p.maxCount)
	b.Bind(key)
	return b
}

// Return hands a drained body (refcount already 0) back to the pool for
// reuse. Reset restores its semaphore to full permits, the invariant Rent
// relies on without re-checking. If the pool is disabled (capacity == 0)
// or already at capacity, the body is dropped instead; a drop at capacity
// is logged at Debug, since it means the pool is undersized for the
// current load.
func (p *Pool) Return(b *body.Body) {
	b.Sem.Reset()
	b.Detach()
	b.InUseFlag.Store(false)

	if p.capacity == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.capacity {
		p.free = append(p.free, b)
		return
	}
	diag.Logger().Debug("pool at capacity, dropping returned body", "capacity", p.capacity)
}

// Len reports the number of bodies currently cached in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Capacity reports the configured pool size (P).
func (p *Pool) Capacity() int {
	return p.capacity
}
