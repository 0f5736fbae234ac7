package tmdb

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLoadedFetcher serves the genre list plus pages keyed by the page query parameter.
func newLoadedFetcher(t *testing.T, pages map[string]string) *PageFetcher {
	t.Helper()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/3/genre/movie/list" {
			w.Write([]byte(testGenres))
			return
		}
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	})

	catalog := NewGenreCatalog(client, zerolog.Nop())
	require.NoError(t, catalog.Load(context.Background()))
	return NewPageFetcher(client, catalog)
}

func TestFetchPage(t *testing.T) {
	fetcher := newLoadedFetcher(t, map[string]string{
		"1": `{"page":1,"total_pages":2,"results":[
			{"id":5,"title":"Five","overview":"a","release_date":"2024-05-01","backdrop_path":"/b5.jpg","poster_path":"/p5.jpg","genre_ids":[28]},
			{"id":6,"title":"Six","overview":"b","release_date":"","backdrop_path":null,"poster_path":null,"genre_ids":[]},
			{"id":7,"title":"Seven","overview":"c","release_date":"2023-01-01","backdrop_path":"","genre_ids":[35,12,999]}
		]}`,
	})

	page, err := fetcher.FetchPage(context.Background(), SearchPath, url.Values{"query": {"num"}}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Records, 3)

	assert.Equal(t, MovieRecord{
		ID:           5,
		Title:        "Five",
		Synopsis:     "a",
		ReleaseDate:  "2024-05-01",
		BackdropPath: "/b5.jpg",
		PosterPath:   "/p5.jpg",
		GenreNames:   []string{"Action"},
	}, page.Records[0])

	assert.Equal(t, []string{"Undefined"}, page.Records[1].GenreNames)
	assert.False(t, page.Records[1].HasBackdrop())
	assert.False(t, page.Records[1].HasPoster())

	assert.Equal(t, []string{"Comedy", "Adventure", "Undefined"}, page.Records[2].GenreNames)
	assert.False(t, page.Records[2].HasBackdrop())
	assert.Equal(t, "Comedy, Adventure, Undefined", page.Records[2].GenreLabel())
}

func TestFetchPage_RequestParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "star wars", r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"page":3,"total_pages":3,"results":[]}`))
	})
	fetcher := NewPageFetcher(client, NewGenreCatalog(client, zerolog.Nop()))

	params := url.Values{"query": {"star wars"}, "page": {"99"}}
	page, err := fetcher.FetchPage(context.Background(), SearchPath, params, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.PageNumber)
	assert.Empty(t, page.Records)
	assert.Equal(t, "99", params.Get("page"), "caller params must not be modified")
}

func TestFetchPage_EmptySearchNormalizesTotalPages(t *testing.T) {
	fetcher := newLoadedFetcher(t, map[string]string{
		"1": `{"page":1,"total_pages":0,"total_results":0,"results":[]}`,
	})

	page, err := fetcher.FetchPage(context.Background(), SearchPath, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Records)
}

func TestFetchPage_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind error
	}{
		{name: "http 500", body: "", kind: ErrHTTPStatus},
		{name: "not json", body: `<html>`, kind: ErrParse},
		{name: "missing page", body: `{"total_pages":1,"results":[]}`, kind: ErrParse},
		{name: "missing total_pages", body: `{"page":1,"results":[]}`, kind: ErrParse},
		{name: "missing results", body: `{"page":1,"total_pages":1}`, kind: ErrParse},
		{name: "page zero", body: `{"page":0,"total_pages":1,"results":[]}`, kind: ErrParse},
		{name: "wrong type", body: `{"page":"1","total_pages":1,"results":[]}`, kind: ErrParse},
		{name: "item missing id", body: `{"page":1,"total_pages":1,"results":[{"title":"x","overview":"","release_date":"","genre_ids":[]}]}`, kind: ErrParse},
		{name: "item missing title", body: `{"page":1,"total_pages":1,"results":[{"id":1,"overview":"","release_date":"","genre_ids":[]}]}`, kind: ErrParse},
		{name: "item missing genre_ids", body: `{"page":1,"total_pages":1,"results":[{"id":1,"title":"x","overview":"","release_date":""}]}`, kind: ErrParse},
		{name: "one bad item fails the page", body: `{"page":1,"total_pages":1,"results":[
			{"id":1,"title":"ok","overview":"","release_date":"","genre_ids":[]},
			{"id":2,"title":"bad","overview":"","release_date":"","genre_ids":["x"]}]}`, kind: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := map[string]string{}
			if tt.body != "" {
				pages["1"] = tt.body
			}
			fetcher := newLoadedFetcher(t, pages)

			page, err := fetcher.FetchPage(context.Background(), UpcomingPath, nil, 1)
			require.Error(t, err)
			assert.Nil(t, page)
			assert.ErrorIs(t, err, tt.kind)

			var fe *FetchError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestFetchMovie(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/550":
			w.Write([]byte(`{"id":550,"title":"Fight Club","overview":"o","release_date":"1999-10-15",
				"poster_path":"/p.jpg","backdrop_path":null,"runtime":139,"tagline":"t",
				"genres":[{"id":18,"name":"Drama"}]}`))
		case "/3/movie/1":
			w.Write([]byte(`{"id":1,"title":"No Genres","genres":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	fetcher := NewPageFetcher(client, NewGenreCatalog(client, zerolog.Nop()))

	details, err := fetcher.FetchMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", details.Title)
	assert.Equal(t, []string{"Drama"}, details.GenreNames)
	assert.Equal(t, 139, details.Runtime)
	assert.Equal(t, 1999, details.Year())
	assert.True(t, details.HasPoster())
	assert.False(t, details.HasBackdrop())

	details, err = fetcher.FetchMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Undefined"}, details.GenreNames)

	_, err = fetcher.FetchMovie(context.Background(), 2)
	require.Error(t, err)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.IsNotFound())
}

func TestMovieRecordHelpers(t *testing.T) {
	tests := []struct {
		date string
		year int
	}{
		{"2024-05-01", 2024},
		{"", 0},
		{"20", 0},
		{"abcd-01-01", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.year, MovieRecord{ReleaseDate: tt.date}.Year(), tt.date)
	}

	assert.Equal(t, UndefinedGenre, MovieRecord{}.PrimaryGenre())
	assert.Equal(t, "Drama", MovieRecord{GenreNames: []string{"Drama", "Crime"}}.PrimaryGenre())
}
