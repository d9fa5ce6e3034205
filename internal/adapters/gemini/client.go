// Package gemini adapts the Google Gemini API to the SongSuggester port.
// It sends the uploaded photo plus the built prompt in a single call and
// parses the model's reply into candidate songs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

const defaultModel = "gemini-2.5-flash"

type Options struct {
	APIKey string
	Model  string
	// Grounded requests the model's web-search tool. The API rejects a JSON
	// response MIME type when a tool is attached, so grounded calls rely on
	// the tolerant parser instead.
	Grounded bool
	Timeout  time.Duration
}

type Client struct {
	apiKey   string
	model    string
	grounded bool
	timeout  time.Duration
}

var _ ports.SongSuggester = (*Client)(nil)

func NewClient(opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:   opts.APIKey,
		model:    model,
		grounded: opts.Grounded,
		timeout:  timeout,
	}
}

// SuggestSongs performs exactly one generation call. It returns
// domain.ErrEmptyResult when the reply parsed to zero valid candidates and
// domain.ErrUpstreamUnavailable for transport or API failures.
func (c *Client) SuggestSongs(ctx context.Context, image domain.ImagePayload, promptText string) ([]domain.CandidateSong, error) {
	if c.apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: init client: %w", errors.Join(domain.ErrUpstreamUnavailable, err))
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0.7),
	}
	if c.grounded {
		m.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
	} else {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}

	parts := []genai.Part{
		genai.Text(promptText),
		&genai.Blob{MIMEType: image.MimeType, Data: image.Data},
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", errors.Join(domain.ErrUpstreamUnavailable, err))
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini: empty model reply: %w", domain.ErrEmptyResult)
	}

	songs, skipped := ParseCandidates(text)
	if skipped > 0 {
		log.Printf("WARN gemini: skipped %d malformed candidate block(s)", skipped)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("gemini: no parseable candidates: %w", domain.ErrEmptyResult)
	}

	return songs, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func ptrFloat32(v float32) *float32 { return &v }
