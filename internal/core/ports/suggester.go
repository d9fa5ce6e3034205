package ports

import (
	"context"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

// SongSuggester is the driven port for the image-capable generative model.
// One call per request; implementations do not retry.
type SongSuggester interface {
	SuggestSongs(ctx context.Context, image domain.ImagePayload, prompt string) ([]domain.CandidateSong, error)
}
