package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a TMDB API client
type Client struct {
	baseURL     string
	apiKey      string
	language    string
	backdropURL string
	posterURL   string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewClient creates a new TMDB client. It does not contact the API; the first genre load
// is the connection check.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: tmdb URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: tmdb API key is required", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:     trimSlash(baseURL),
		apiKey:      apiKey,
		backdropURL: DefaultBackdropURL,
		posterURL:   DefaultPosterURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger.With().Str("component", "tmdb").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// getJSON performs an authenticated GET against an API path and returns the raw body.
// Failures are reported as *FetchError.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}

	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/") + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, networkError(op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("op", op).
		Str("path", path).
		Str("page", query.Get("page")).
		Msg("Making TMDB API request")

	return c.do(op, req)
}

// getImage downloads an image from a CDN base and a path returned by the API.
func (c *Client) getImage(ctx context.Context, op, base, path string) ([]byte, error) {
	endpoint := base + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, networkError(op, fmt.Errorf("failed to create request: %w", err))
	}

	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(op, resp.StatusCode)
	}

	return body, nil
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
