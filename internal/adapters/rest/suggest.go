package rest

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/services"
)

// Slack on top of the image limit for the other form fields and multipart
// framing.
const multipartSlack = 1 << 20

type songResponse struct {
	SongTitle       string `json:"song_title"`
	Artist          string `json:"artist"`
	Summary         string `json:"summary"`
	SpotifyURL      string `json:"spotify_url,omitempty"`
	PreviewURL      string `json:"preview_url,omitempty"`
	SpotifyID       string `json:"spotify_id,omitempty"`
	GoogleSearchURL string `json:"google_search_url,omitempty"`
	SpotifyError    bool   `json:"spotify_error"`
}

type suggestResponse struct {
	Songs []songResponse `json:"songs"`
}

// SuggestSong handles POST /suggest-song
func (h *Handler) SuggestSong(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageBytes+multipartSlack)

	// 1. Decode the multipart form
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a multipart form with an image file")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "an image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read the uploaded image")
		return
	}

	// 2. Build the core request; defaults and deeper validation live in the
	// service.
	req := domain.SuggestionRequest{
		Image:    domain.ImagePayload{Data: data},
		Language: r.FormValue("language"),
		Genre:    r.FormValue("genre"),
		Context:  r.FormValue("context"),
	}

	// 3. Call the Service
	resp, err := h.svc.SuggestSongs(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, invalidInputMessage(err))
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			// The specific upstream stays in the logs, not the response.
			log.Printf("WARN rest: upstream failure: %v", err)
			writeError(w, http.StatusBadGateway, "song suggestion is temporarily unavailable, please try again")
		default:
			log.Printf("WARN rest: request failed: %v", err)
			writeError(w, http.StatusInternalServerError, "an unexpected error occurred while processing your request")
		}
		return
	}

	// 4. Return the Response
	writeJSON(w, http.StatusOK, toWire(resp))
}

func invalidInputMessage(err error) string {
	var invalid domain.InvalidInputError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	return "invalid request"
}

func toWire(resp domain.SuggestionResponse) suggestResponse {
	songs := make([]songResponse, len(resp.Songs))
	for i, song := range resp.Songs {
		songs[i] = songResponse{
			SongTitle:       song.Title,
			Artist:          song.Artist,
			Summary:         song.Summary,
			SpotifyURL:      song.SpotifyURL,
			PreviewURL:      song.PreviewURL,
			SpotifyID:       song.SpotifyID,
			GoogleSearchURL: song.GoogleSearchURL,
			SpotifyError:    song.SpotifyError,
		}
	}
	return suggestResponse{Songs: songs}
}
