package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

// ErrNoTrackMatch indicates the catalog search returned nothing above the
// confidence threshold.
var ErrNoTrackMatch = errors.New("no track match")

// NoTrackMatchError provides context for a failed catalog lookup.
type NoTrackMatchError struct {
	Title  string
	Artist string
}

func (e NoTrackMatchError) Error() string {
	if e.Title == "" && e.Artist == "" {
		return ErrNoTrackMatch.Error()
	}
	return fmt.Sprintf("no track match for title %q artist %q", e.Title, e.Artist)
}

func (e NoTrackMatchError) Is(target error) bool {
	return target == ErrNoTrackMatch
}

// CatalogProvider is the driven port for the music-catalog search service.
type CatalogProvider interface {
	FindTrack(ctx context.Context, title, artist string) (domain.TrackMatch, error)
}
