package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

const searchResponseTwoItems = `{
	"tracks": {
		"items": [
			{
				"id": "trk1",
				"name": "Yellow",
				"preview_url": "https://p.scdn.co/mp3-preview/abc",
				"artists": [{"name": "Coldplay"}],
				"external_urls": {"spotify": "https://open.spotify.com/track/trk1"}
			},
			{
				"id": "trk2",
				"name": "Yellow Submarine",
				"preview_url": null,
				"artists": [{"name": "The Beatles"}],
				"external_urls": {"spotify": "https://open.spotify.com/track/trk2"}
			}
		]
	}
}`

func newTestClient(ts *httptest.Server) *Client {
	return &Client{
		httpClient:  ts.Client(),
		baseURL:     ts.URL,
		maxRetries:  1,
		baseBackoff: time.Millisecond,
	}
}

func TestFindTrack(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		artist     string
		statusCode int
		response   string
		wantMatch  domain.TrackMatch
		wantErr    error
	}{
		{
			name:       "best scoring item wins",
			title:      "Yellow",
			artist:     "Coldplay",
			statusCode: http.StatusOK,
			response:   searchResponseTwoItems,
			wantMatch: domain.TrackMatch{
				ID:         "trk1",
				Title:      "Yellow",
				Artist:     "Coldplay",
				SpotifyURL: "https://open.spotify.com/track/trk1",
				PreviewURL: "https://p.scdn.co/mp3-preview/abc",
			},
		},
		{
			name:       "no items means no match",
			title:      "Nonexistent",
			artist:     "Nobody",
			statusCode: http.StatusOK,
			response:   `{"tracks": {"items": []}}`,
			wantErr:    ports.ErrNoTrackMatch,
		},
		{
			name:       "items below threshold mean no match",
			title:      "Completely Unrelated Query Terms",
			artist:     "Unknown Act",
			statusCode: http.StatusOK,
			response:   searchResponseTwoItems,
			wantErr:    ports.ErrNoTrackMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("type"); got != "track" {
					t.Errorf("type param: got %q, want %q", got, "track")
				}
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.response)
			}))
			defer ts.Close()

			got, err := newTestClient(ts).FindTrack(context.Background(), tt.title, tt.artist)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantMatch {
				t.Errorf("match: got %+v, want %+v", got, tt.wantMatch)
			}
		})
	}
}

func TestFindTrackServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).FindTrack(context.Background(), "Yellow", "Coldplay")
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if errors.Is(err, ports.ErrNoTrackMatch) {
		t.Error("server error must not be reported as a no-match")
	}
}

func TestFindTrackDeterministic(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchResponseTwoItems)
	}))
	defer ts.Close()

	client := newTestClient(ts)
	first, err := client.FindTrack(context.Background(), "Yellow", "Coldplay")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := client.FindTrack(context.Background(), "Yellow", "Coldplay")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Errorf("resolution not deterministic: %+v vs %+v", first, second)
	}
}
