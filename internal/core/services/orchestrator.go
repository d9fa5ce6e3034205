package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/ports"
	"github.com/snapsong-labs/snapsong/internal/core/prompt"
)

const (
	// MaxImageBytes is the upload size limit.
	MaxImageBytes = 10 << 20
	// MaxContextChars is the length limit on the optional user context.
	MaxContextChars = 200

	DefaultLanguage = "English"
	DefaultGenre    = "Popular"
)

// Orchestrator runs the suggestion pipeline: validate the request, build
// the prompt, call the model, then resolve each candidate against the
// catalog independently.
type Orchestrator struct {
	suggester ports.SongSuggester
	catalog   ports.CatalogProvider
	cache     ports.ResolutionCache
	analyzer  ports.PreviewAnalyzer
	grounded  bool
}

// NewOrchestrator constructs an Orchestrator. cache and analyzer are
// optional; nil disables them.
func NewOrchestrator(suggester ports.SongSuggester, catalog ports.CatalogProvider, cache ports.ResolutionCache, analyzer ports.PreviewAnalyzer, grounded bool) *Orchestrator {
	return &Orchestrator{
		suggester: suggester,
		catalog:   catalog,
		cache:     cache,
		analyzer:  analyzer,
		grounded:  grounded,
	}
}

// SuggestSongs is the single externally callable operation of the core.
// The returned song order matches the model's ranking. An AI reply with no
// usable candidates yields an empty list, not an error; an AI request
// failure propagates and no catalog lookups are attempted.
func (o *Orchestrator) SuggestSongs(ctx context.Context, req domain.SuggestionRequest) (domain.SuggestionResponse, error) {
	if err := validateRequest(&req); err != nil {
		return domain.SuggestionResponse{}, fmt.Errorf("service: %w", err)
	}

	reqID := uuid.NewString()[:8]
	log.Printf("DEBUG service: [%s] suggesting songs language=%q genre=%q context_len=%d", reqID, req.Language, req.Genre, len(req.Context))

	promptText := prompt.Build(prompt.Input{
		Language: req.Language,
		Genre:    req.Genre,
		Context:  req.Context,
		Grounded: o.grounded,
	})

	candidates, err := o.suggester.SuggestSongs(ctx, req.Image, promptText)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			log.Printf("WARN service: [%s] model returned no usable candidates", reqID)
			return domain.SuggestionResponse{Songs: []domain.ResolvedSong{}}, nil
		}
		return domain.SuggestionResponse{}, fmt.Errorf("service: suggestion failed: %w", err)
	}

	// Candidates are independent; resolve them concurrently into fixed
	// slots so the model's ordering survives.
	resolved := make([]domain.ResolvedSong, len(candidates))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, cand := range candidates {
		eg.Go(func() error {
			resolved[i] = o.resolveCandidate(egCtx, reqID, cand)
			return nil
		})
	}
	// Resolution never fails the request; failures degrade per candidate.
	_ = eg.Wait()

	log.Printf("DEBUG service: [%s] resolved %d song(s)", reqID, len(resolved))
	return domain.SuggestionResponse{Songs: resolved}, nil
}

func validateRequest(req *domain.SuggestionRequest) error {
	if len(req.Image.Data) == 0 {
		return domain.InvalidInputError{Reason: "an image file is required"}
	}
	if len(req.Image.Data) > MaxImageBytes {
		return domain.InvalidInputError{Reason: "image exceeds the 10 MB limit"}
	}

	sniffed := http.DetectContentType(req.Image.Data)
	if !strings.HasPrefix(sniffed, "image/") {
		return domain.InvalidInputError{Reason: "uploaded file is not an image"}
	}
	req.Image.MimeType = sniffed

	if len([]rune(req.Context)) > MaxContextChars {
		return domain.InvalidInputError{Reason: fmt.Sprintf("context must be at most %d characters", MaxContextChars)}
	}

	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultLanguage
	}
	if strings.TrimSpace(req.Genre) == "" {
		req.Genre = DefaultGenre
	}

	return nil
}

// resolveCandidate maps one candidate to its resolved form. Exactly one of
// SpotifyURL / GoogleSearchURL ends up populated.
func (o *Orchestrator) resolveCandidate(ctx context.Context, reqID string, cand domain.CandidateSong) domain.ResolvedSong {
	song := domain.ResolvedSong{CandidateSong: cand}
	key := domain.ResolutionKey(cand.Title, cand.Artist)

	if o.cache != nil {
		match, found, err := o.cache.Get(ctx, key)
		if err != nil {
			log.Printf("WARN service: [%s] cache read failed for %q: %v", reqID, key, err)
		} else if found {
			fillFromMatch(&song, match)
			return song
		}
	}

	match, err := o.catalog.FindTrack(ctx, cand.Title, cand.Artist)
	if err != nil {
		if errors.Is(err, ports.ErrNoTrackMatch) {
			log.Printf("DEBUG service: [%s] no catalog match for %q by %q", reqID, cand.Title, cand.Artist)
		} else {
			log.Printf("WARN service: [%s] catalog lookup failed for %q by %q: %v", reqID, cand.Title, cand.Artist, err)
		}
		song.GoogleSearchURL = domain.GoogleSearchURL(cand.Title, cand.Artist)
		song.SpotifyError = true
		return song
	}

	fillFromMatch(&song, match)

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, match); err != nil {
			log.Printf("WARN service: [%s] cache write failed for %q: %v", reqID, key, err)
		}
	}
	if o.analyzer != nil && match.PreviewURL != "" {
		o.analyzer.Submit(key, match.PreviewURL)
	}

	return song
}

func fillFromMatch(song *domain.ResolvedSong, match domain.TrackMatch) {
	song.SpotifyID = match.ID
	song.SpotifyURL = match.SpotifyURL
	song.PreviewURL = match.PreviewURL
}
