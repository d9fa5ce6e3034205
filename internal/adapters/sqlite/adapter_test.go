package sqlite

import (
	"context"
	"testing"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("open adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter_GetMiss(t *testing.T) {
	a := newTestAdapter(t)

	_, found, err := a.Get(context.Background(), "missing|key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Error("expected miss for absent key")
	}
}

func TestAdapter_PutThenGet(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	match := domain.TrackMatch{
		ID:         "trk1",
		Title:      "Yellow",
		Artist:     "Coldplay",
		SpotifyURL: "https://open.spotify.com/track/trk1",
		PreviewURL: "https://p.scdn.co/mp3-preview/abc",
	}
	key := domain.ResolutionKey("Yellow", "Coldplay")

	if err := a.Put(ctx, key, match); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := a.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected hit after put")
	}
	if got != match {
		t.Errorf("got %+v, want %+v", got, match)
	}
}

func TestAdapter_PutUpsertsExistingKey(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	key := domain.ResolutionKey("Yellow", "Coldplay")

	first := domain.TrackMatch{ID: "old", Title: "Yellow", Artist: "Coldplay", SpotifyURL: "https://old"}
	second := domain.TrackMatch{ID: "new", Title: "Yellow", Artist: "Coldplay", SpotifyURL: "https://new"}

	if err := a.Put(ctx, key, first); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := a.Put(ctx, key, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, found, err := a.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("get after upsert: found=%v err=%v", found, err)
	}
	if got.ID != "new" {
		t.Errorf("upsert did not replace row: got ID %q", got.ID)
	}
}

func TestAdapter_PutStoresEmptyPreviewAsNull(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	key := domain.ResolutionKey("No Preview", "Artist")

	if err := a.Put(ctx, key, domain.TrackMatch{ID: "t", Title: "No Preview", Artist: "Artist", SpotifyURL: "https://x"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := a.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.PreviewURL != "" {
		t.Errorf("preview url should stay empty, got %q", got.PreviewURL)
	}
}

func TestAdapter_UpdateEnergy(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	key := domain.ResolutionKey("Yellow", "Coldplay")

	if err := a.Put(ctx, key, domain.TrackMatch{ID: "trk1", Title: "Yellow", Artist: "Coldplay", SpotifyURL: "https://x"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := a.UpdateEnergy(ctx, key, 0.42); err != nil {
		t.Fatalf("update energy: %v", err)
	}

	var energy float64
	if err := a.db.QueryRowContext(ctx, "SELECT energy FROM resolutions WHERE key = ?", key).Scan(&energy); err != nil {
		t.Fatalf("read energy: %v", err)
	}
	if energy != 0.42 {
		t.Errorf("energy: got %v, want 0.42", energy)
	}
}
