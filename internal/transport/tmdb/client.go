// Package tmdb fetches poster URLs from The Movie Database API. It is a
// best-effort collaborator: every failure here is contained by the
// enrichment layer and never reaches the ranking result.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/metrics"
)

const (
	defaultBaseURL   = "https://api.themoviedb.org/3"
	defaultImageBase = "https://image.tmdb.org/t/p/w500"
	defaultTimeout   = 5 * time.Second
)

// Client looks up movie posters by TMDb id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	imageBase  string
	apiKey     string
	logger     *zap.Logger
}

// Config holds TMDb client settings. An empty APIKey disables the client:
// every lookup returns ErrPosterUnavailable and callers fall back to local
// images.
type Config struct {
	APIKey    string
	BaseURL   string
	ImageBase string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates a TMDb client.
func New(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBase := cfg.ImageBase
	if imageBase == "" {
		imageBase = defaultImageBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		imageBase:  imageBase,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// movieResponse is the subset of the TMDb movie payload we read.
type movieResponse struct {
	PosterPath string `json:"poster_path"`
}

// PosterURL returns the full poster image URL for a TMDb movie id, or
// ErrPosterUnavailable when the client is disabled, the movie has no poster,
// or the API call fails.
func (c *Client) PosterURL(ctx context.Context, tmdbID int) (string, error) {
	if !c.Configured() {
		return "", domain.ErrPosterUnavailable
	}

	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, tmdbID, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build poster request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PosterRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch poster for %d: %w: %w", tmdbID, err, domain.ErrPosterUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.PosterRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("poster lookup for %d: status %s: %w",
			tmdbID, strconv.Itoa(resp.StatusCode), domain.ErrPosterUnavailable)
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		metrics.PosterRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode poster response for %d: %w: %w", tmdbID, err, domain.ErrPosterUnavailable)
	}

	if movie.PosterPath == "" {
		metrics.PosterRequestsTotal.WithLabelValues("missing").Inc()
		return "", fmt.Errorf("movie %d has no poster: %w", tmdbID, domain.ErrPosterUnavailable)
	}

	metrics.PosterRequestsTotal.WithLabelValues("success").Inc()
	return c.imageBase + movie.PosterPath, nil
}
