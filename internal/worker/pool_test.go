package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

type mockCache struct {
	mu       sync.Mutex
	energies map[string]float64
	err      error
}

func newMockCache() *mockCache {
	return &mockCache{energies: make(map[string]float64)}
}

func (m *mockCache) Get(ctx context.Context, key string) (domain.TrackMatch, bool, error) {
	return domain.TrackMatch{}, false, nil
}

func (m *mockCache) Put(ctx context.Context, key string, match domain.TrackMatch) error {
	return nil
}

func (m *mockCache) UpdateEnergy(ctx context.Context, key string, energy float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.energies[key] = energy
	return nil
}

func (m *mockCache) energyFor(key string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.energies[key]
	return e, ok
}

func withAnalyzer(t *testing.T, fn func(url string) (float64, error)) {
	t.Helper()
	orig := AnalyzePreviewFunc
	AnalyzePreviewFunc = fn
	t.Cleanup(func() { AnalyzePreviewFunc = orig })
}

func TestPoolStoresEnergy(t *testing.T) {
	withAnalyzer(t, func(url string) (float64, error) {
		if url != "https://p/preview.mp3" {
			t.Errorf("unexpected url %q", url)
		}
		return 0.42, nil
	})

	cache := newMockCache()
	pool := NewPool(cache, 10)
	pool.Start(1)

	pool.Submit("yellow|coldplay", "https://p/preview.mp3")
	pool.Stop()

	energy, ok := cache.energyFor("yellow|coldplay")
	if !ok {
		t.Fatal("energy was not stored")
	}
	if energy != 0.42 {
		t.Errorf("energy: got %f, want 0.42", energy)
	}
}

func TestPoolSkipsEmptyPreview(t *testing.T) {
	withAnalyzer(t, func(url string) (float64, error) {
		t.Error("analyzer must not run for an empty preview url")
		return 0, nil
	})

	cache := newMockCache()
	pool := NewPool(cache, 10)
	pool.Start(1)

	pool.Submit("key", "")
	pool.Stop()
}

func TestPoolAnalyzerFailureLeavesCacheAlone(t *testing.T) {
	withAnalyzer(t, func(url string) (float64, error) {
		return 0, errors.New("decode failed")
	})

	cache := newMockCache()
	pool := NewPool(cache, 10)
	pool.Start(1)

	pool.Submit("key", "https://p/broken.mp3")
	pool.Stop()

	if len(cache.energies) != 0 {
		t.Errorf("cache should be untouched, got %v", cache.energies)
	}
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	cache := newMockCache()
	pool := NewPool(cache, 1)
	// Workers never started, so the queue fills and Submit must not block.

	// A full queue must drop, not block; a blocking Submit would hang the
	// test here.
	pool.Submit("a", "https://p/a.mp3")
	pool.Submit("b", "https://p/b.mp3")

	if got := len(pool.jobs); got != 1 {
		t.Errorf("queued jobs: got %d, want 1", got)
	}
}
