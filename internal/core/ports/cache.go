package ports

import (
	"context"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

// ResolutionCache stores catalog lookups keyed by domain.ResolutionKey so
// repeat resolutions stay deterministic and cheap. It is not a history of
// user suggestions.
type ResolutionCache interface {
	Get(ctx context.Context, key string) (domain.TrackMatch, bool, error)
	Put(ctx context.Context, key string, match domain.TrackMatch) error
	UpdateEnergy(ctx context.Context, key string, energy float64) error
}

// PreviewAnalyzer accepts fire-and-forget jobs that analyze a track's
// preview audio in the background.
type PreviewAnalyzer interface {
	Submit(key, previewURL string)
}
