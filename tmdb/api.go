package tmdb

import (
	"context"
	"net/url"
)

// Pager defines the listing operations used by a session
type Pager interface {
	// FetchPage fetches a single page of a listing endpoint
	FetchPage(ctx context.Context, endpoint string, params url.Values, page int) (*ResultPage, error)
}

// Catalog defines the genre lookup used by a session
type Catalog interface {
	// Load fetches and replaces the genre table
	Load(ctx context.Context) error

	// Loaded reports whether a load has succeeded
	Loaded() bool

	// Resolve returns the display name of a genre id
	Resolve(id int) string
}

// BackdropFetcher schedules background backdrop downloads
type BackdropFetcher interface {
	FetchBackdrop(ctx context.Context, record MovieRecord, onReady ImageReadyFunc)
}

var (
	_ Pager           = (*PageFetcher)(nil)
	_ Catalog         = (*GenreCatalog)(nil)
	_ BackdropFetcher = (*ImageFetcher)(nil)
)
