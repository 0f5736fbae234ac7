package tmdb

import (
	"image"
	"strconv"
	"strings"
)

// UndefinedGenreID is the sentinel catalog entry used for items without genre ids
const UndefinedGenreID = -1

// UndefinedGenre is the display name returned for unknown or missing genres
const UndefinedGenre = "Undefined"

// Genre is a single entry of the genre catalog
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieRecord is one movie parsed from a listing response
type MovieRecord struct {
	ID           int
	Title        string
	Synopsis     string
	ReleaseDate  string
	BackdropPath string
	PosterPath   string
	GenreNames   []string

	// BackdropImage is patched in after the record is listed; nil until then or when the
	// download failed.
	BackdropImage image.Image
}

// HasBackdrop reports whether the record carries a backdrop path
func (m MovieRecord) HasBackdrop() bool {
	return m.BackdropPath != ""
}

// HasPoster reports whether the record carries a poster path
func (m MovieRecord) HasPoster() bool {
	return m.PosterPath != ""
}

// GenreLabel returns the genre names separated by commas
func (m MovieRecord) GenreLabel() string {
	return strings.Join(m.GenreNames, ", ")
}

// PrimaryGenre returns the first genre name
func (m MovieRecord) PrimaryGenre() string {
	if len(m.GenreNames) == 0 {
		return UndefinedGenre
	}
	return m.GenreNames[0]
}

// Year returns the release year, or 0 when the release date is empty or malformed
func (m MovieRecord) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// ResultPage is a single parsed page of a listing endpoint
type ResultPage struct {
	PageNumber int
	TotalPages int
	Records    []MovieRecord
}

// MovieDetails is a record fetched from the movie details endpoint
type MovieDetails struct {
	MovieRecord
	Runtime int
	Tagline string
}

// listResponse is the wire shape of a listing page. Pointers distinguish missing fields
// from zero values.
type listResponse struct {
	Page       *int            `json:"page"`
	TotalPages *int            `json:"total_pages"`
	Results    *[]listingEntry `json:"results"`
}

type listingEntry struct {
	ID           *int    `json:"id"`
	Title        *string `json:"title"`
	Overview     *string `json:"overview"`
	ReleaseDate  *string `json:"release_date"`
	BackdropPath *string `json:"backdrop_path"`
	PosterPath   *string `json:"poster_path"`
	GenreIDs     *[]int  `json:"genre_ids"`
}

type genresResponse struct {
	Genres *[]genreEntry `json:"genres"`
}

type genreEntry struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

type detailsResponse struct {
	ID           *int         `json:"id"`
	Title        *string      `json:"title"`
	Overview     *string      `json:"overview"`
	ReleaseDate  *string      `json:"release_date"`
	BackdropPath *string      `json:"backdrop_path"`
	PosterPath   *string      `json:"poster_path"`
	Genres       []genreEntry `json:"genres"`
	Runtime      *int         `json:"runtime"`
	Tagline      *string      `json:"tagline"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
