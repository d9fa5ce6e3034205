package domain

import (
	"net/url"
	"strings"
)

// ImagePayload is the raw uploaded photo plus its sniffed content type.
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// SuggestionRequest carries one inbound suggestion request through the
// pipeline. It is owned by the orchestrator for the request's lifetime.
type SuggestionRequest struct {
	Image    ImagePayload
	Language string
	Genre    string
	Context  string
}

// CandidateSong is a suggestion as emitted by the AI step, before any
// catalog lookup.
type CandidateSong struct {
	Title   string
	Artist  string
	Summary string
}

// TrackMatch is a catalog hit for a candidate.
type TrackMatch struct {
	ID         string
	Title      string
	Artist     string
	SpotifyURL string
	PreviewURL string
}

// ResolvedSong is a candidate augmented with catalog metadata, or with a
// web-search fallback link when the catalog had nothing.
// Exactly one of SpotifyURL / GoogleSearchURL is populated.
type ResolvedSong struct {
	CandidateSong
	SpotifyID       string
	SpotifyURL      string
	PreviewURL      string
	GoogleSearchURL string
	SpotifyError    bool
}

// SuggestionResponse preserves the AI's ranking order.
type SuggestionResponse struct {
	Songs []ResolvedSong
}

// GoogleSearchURL builds the fallback search link for a candidate that
// could not be resolved against the catalog.
func GoogleSearchURL(title, artist string) string {
	q := url.Values{}
	q.Set("q", title+" "+artist+" song")
	return "https://www.google.com/search?" + q.Encode()
}

// ResolutionKey is the deterministic cache key for a title/artist pair.
func ResolutionKey(title, artist string) string {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return normalize(title) + "|" + normalize(artist)
}
