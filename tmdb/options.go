package tmdb

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultBackdropURL serves wide backdrop images
	DefaultBackdropURL = "https://image.tmdb.org/t/p/w780"
	// DefaultPosterURL serves narrow poster images
	DefaultPosterURL = "https://image.tmdb.org/t/p/w500"

	defaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLanguage adds a language parameter (e.g. "en-US") to every API request.
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithImageURLs overrides the backdrop and poster CDN templates.
// Empty values keep the defaults.
func WithImageURLs(backdrop, poster string) Option {
	return func(c *Client) {
		if backdrop != "" {
			c.backdropURL = trimSlash(backdrop)
		}
		if poster != "" {
			c.posterURL = trimSlash(poster)
		}
	}
}
