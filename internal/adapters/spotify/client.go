// Package spotify adapts the Spotify Web API to the CatalogProvider port.
// Auth uses the client-credentials flow; the oauth2 transport refreshes the
// token transparently.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token" // #nosec G101 -- public endpoint, not a credential
)

type Options struct {
	ClientID     string
	ClientSecret string
	// BaseURL overrides the API host, used by tests.
	BaseURL string
	// HTTPClient is the underlying transport. When credentials are set it is
	// wrapped by the oauth2 token source; when they are empty it is used
	// directly (tests).
	HTTPClient  *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

var _ ports.CatalogProvider = (*Client)(nil)

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if opts.ClientID != "" && opts.ClientSecret != "" {
		conf := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     tokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = conf.Client(ctx)
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
	}
}
