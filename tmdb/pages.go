package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Listing endpoints
const (
	SearchPath   = "search/movie"
	UpcomingPath = "movie/upcoming"
)

// PageFetcher fetches listing pages and resolves genres against a catalog
type PageFetcher struct {
	client  *Client
	catalog *GenreCatalog
}

// NewPageFetcher creates a PageFetcher
func NewPageFetcher(client *Client, catalog *GenreCatalog) *PageFetcher {
	return &PageFetcher{
		client:  client,
		catalog: catalog,
	}
}

// FetchPage fetches one page of a listing endpoint. Either the whole page is returned or a
// *FetchError; there are no partial results.
func (p *PageFetcher) FetchPage(ctx context.Context, endpoint string, params url.Values, page int) (*ResultPage, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("page", strconv.Itoa(page))

	body, err := p.client.getJSON(ctx, "page", endpoint, query)
	if err != nil {
		return nil, err
	}

	result, err := parsePage(body, p.catalog)
	if err != nil {
		return nil, parseError("page", err)
	}

	p.client.logger.Debug().
		Str("endpoint", endpoint).
		Int("page", result.PageNumber).
		Int("total_pages", result.TotalPages).
		Int("count", len(result.Records)).
		Msg("Retrieved listing page")

	return result, nil
}

// FetchMovie fetches a single movie from the details endpoint
func (p *PageFetcher) FetchMovie(ctx context.Context, id int) (*MovieDetails, error) {
	body, err := p.client.getJSON(ctx, "movie", "movie/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	details, err := parseDetails(body)
	if err != nil {
		return nil, parseError("movie", err)
	}
	return details, nil
}

func parsePage(body []byte, catalog *GenreCatalog) (*ResultPage, error) {
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Page == nil:
		return nil, errors.New("missing field page")
	case resp.TotalPages == nil:
		return nil, errors.New("missing field total_pages")
	case resp.Results == nil:
		return nil, errors.New("missing field results")
	case *resp.Page < 1:
		return nil, fmt.Errorf("invalid page %d", *resp.Page)
	case *resp.TotalPages < 0:
		return nil, fmt.Errorf("invalid total_pages %d", *resp.TotalPages)
	}

	page := &ResultPage{
		PageNumber: *resp.Page,
		// An empty search reports zero pages
		TotalPages: max(*resp.TotalPages, 1),
		Records:    make([]MovieRecord, 0, len(*resp.Results)),
	}

	for i, entry := range *resp.Results {
		record, err := entry.toRecord(catalog)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		page.Records = append(page.Records, record)
	}

	return page, nil
}

func (e listingEntry) toRecord(catalog *GenreCatalog) (MovieRecord, error) {
	switch {
	case e.ID == nil:
		return MovieRecord{}, errors.New("missing field id")
	case e.Title == nil:
		return MovieRecord{}, errors.New("missing field title")
	case e.Overview == nil:
		return MovieRecord{}, errors.New("missing field overview")
	case e.ReleaseDate == nil:
		return MovieRecord{}, errors.New("missing field release_date")
	case e.GenreIDs == nil:
		return MovieRecord{}, errors.New("missing field genre_ids")
	}

	return MovieRecord{
		ID:           *e.ID,
		Title:        *e.Title,
		Synopsis:     *e.Overview,
		ReleaseDate:  *e.ReleaseDate,
		BackdropPath: deref(e.BackdropPath),
		PosterPath:   deref(e.PosterPath),
		GenreNames:   catalog.ResolveAll(*e.GenreIDs),
	}, nil
}

func parseDetails(body []byte) (*MovieDetails, error) {
	var resp detailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == nil || resp.Title == nil {
		return nil, errors.New("missing field id or title")
	}

	names := make([]string, 0, len(resp.Genres))
	for _, genre := range resp.Genres {
		if genre.Name != nil {
			names = append(names, *genre.Name)
		}
	}
	if len(names) == 0 {
		names = append(names, UndefinedGenre)
	}

	return &MovieDetails{
		MovieRecord: MovieRecord{
			ID:           *resp.ID,
			Title:        *resp.Title,
			Synopsis:     deref(resp.Overview),
			ReleaseDate:  deref(resp.ReleaseDate),
			BackdropPath: deref(resp.BackdropPath),
			PosterPath:   deref(resp.PosterPath),
			GenreNames:   names,
		},
		Runtime: deref(resp.Runtime),
		Tagline: deref(resp.Tagline),
	}, nil
}
