package registry

import (
	"sync"
	"testing"

	"github.com/giantswarm/keyedsem/internal/pool"
)

func newTestRegistry(maxCount, poolSize int) *Registry[string] {
	p := pool.New(poolSize, -1, maxCount)
	return New[string](maxCount, p, 0)
}

func TestGetOrCreateIncrementsRefcount(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(2, 0)
	b1 := r.GetOrCreate("k")
	if b1.RefCount.Load() != 1 {
		t.Fatalf("RefCount = %d, want 1", b1.RefCount.Load())
	}
	b2 := r.GetOrCreate("k")
	if b1 != b2 {
		t.Fatal("GetOrCreate for the same live key must return the same body")
	}
	if b1.RefCount.Load() != 2 {
		t.Fatalf("RefCount = %d, want 2", b1.RefCount.Load())
	}
}

func TestReleaseRemovesAtZeroRefcount(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(1, 0)
	r.GetOrCreate("k")
	if !r.IsInUse("k") {
		t.Fatal("IsInUse should be true right after GetOrCreate")
	}
	r.Release("k")
	if r.IsInUse("k") {
		t.Fatal("IsInUse should be false after the only holder releases")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestReleaseKeepsEntryWhileRefsRemain(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(3, 0)
	r.GetOrCreate("k")
	r.GetOrCreate("k")
	r.Release("k")
	if !r.IsInUse("k") {
		t.Fatal("IsInUse should stay true while one ref remains")
	}
}

func TestIsInUseFalseForUnknownKey(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(1, 0)
	if r.IsInUse("missing") {
		t.Fatal("IsInUse should be false for a key never seen")
	}
}

func TestRemainingAndCurrentCountDefaults(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(4, 0)
	if got := r.RemainingCount("missing"); got != 0 {
		t.Fatalf("RemainingCount(missing) = %d, want 0", got)
	}
	if got := r.CurrentCount("missing"); got != 4 {
		t.Fatalf("CurrentCount(missing) = %d, want 4", got)
	}
}

func TestRegistryConcurrentGetOrCreateReleaseNoLeak(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(1, 4)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + string(rune('a'+i%5))
			b := r.GetOrCreate(key)
			if b.RefCount.Load() < 1 {
				t.Errorf("RefCount = %d, want >= 1 while held", b.RefCount.Load())
			}
			r.Release(key)
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after all releases", r.Len())
	}
	for c := 'a'; c < 'a'+5; c++ {
		if r.IsInUse("k" + string(c)) {
			t.Fatalf("IsInUse(%q) should be false after all holders released", "k"+string(c))
		}
	}
}

func TestNewWithCapacityHintWorks(t *testing.T) {
	t.Parallel()

	p := pool.New(0, -1, 1)
	r := New[string](1, p, 64)
	b := r.GetOrCreate("k")
	if b.RefCount.Load() != 1 {
		t.Fatalf("RefCount = %d, want 1", b.RefCount.Load())
	}
	r.Release("k")
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestKeysSnapshot(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(1, 0)
	r.GetOrCreate("a")
	r.GetOrCreate("b")

	keys := r.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() = %v, want 2 entries", keys)
	}
}
