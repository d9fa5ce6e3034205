package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

const (
	searchLimit          = 5
	searchMatchThreshold = 0.70
)

// searchTrack wire shapes.
type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	PreviewURL   string          `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

// FindTrack searches the catalog for a title/artist pair and returns the
// best-scoring hit. Results below the confidence threshold yield a
// ports.NoTrackMatchError. The mapping is deterministic: normalization and
// scoring are pure, and ties keep the earliest (highest ranked) item.
func (c *Client) FindTrack(ctx context.Context, title, artist string) (domain.TrackMatch, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	queryTitle := fallbackIfEmpty(normalizeSearchInput(title), title)
	queryArtist := fallbackIfEmpty(normalizeSearchInput(artist), artist)

	query := searchURL.Query()
	query.Set("q", fmt.Sprintf("track:%s artist:%s", queryTitle, queryArtist))
	query.Set("type", "track")
	query.Set("limit", fmt.Sprintf("%d", searchLimit))
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: create search request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: search status %d", resp.StatusCode)
	}

	var searchBody struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchBody); err != nil {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}

	bestScore := 0.0
	bestIndex := -1
	for i, candidate := range searchBody.Tracks.Items {
		score := scoreCandidate(title, artist, candidate)
		log.Printf("DEBUG spotify adapter: match %s - %s (score %.2f)", joinArtistNames(candidate), candidate.Name, score)
		if score >= searchMatchThreshold && score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex == -1 {
		return domain.TrackMatch{}, fmt.Errorf("spotify adapter: %w", &ports.NoTrackMatchError{Title: title, Artist: artist})
	}

	return mapTrackToDomain(searchBody.Tracks.Items[bestIndex]), nil
}

func mapTrackToDomain(st spotifyTrack) domain.TrackMatch {
	return domain.TrackMatch{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     joinArtistNames(st),
		SpotifyURL: st.ExternalURLs.Spotify,
		PreviewURL: st.PreviewURL,
	}
}

func joinArtistNames(track spotifyTrack) string {
	if len(track.Artists) == 0 {
		return ""
	}
	parts := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		parts = append(parts, artist.Name)
	}
	return strings.Join(parts, ", ")
}
