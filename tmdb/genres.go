package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// GenreListPath is the movie genre listing endpoint
const GenreListPath = "genre/movie/list"

// GenreCatalog maps genre ids to display names. It is empty until Load succeeds and is
// only ever replaced as a whole.
type GenreCatalog struct {
	client *Client
	logger zerolog.Logger

	mu     sync.RWMutex
	table  map[int]string
	loaded bool
}

// NewGenreCatalog creates an empty catalog backed by the client
func NewGenreCatalog(client *Client, logger zerolog.Logger) *GenreCatalog {
	return &GenreCatalog{
		client: client,
		logger: logger,
		table:  map[int]string{},
	}
}

// Load fetches the genre list and replaces the table. On failure the previous table is
// kept.
func (g *GenreCatalog) Load(ctx context.Context) error {
	body, err := g.client.getJSON(ctx, "genres", GenreListPath, nil)
	if err != nil {
		return err
	}

	genres, err := parseGenres(body)
	if err != nil {
		return parseError("genres", err)
	}

	table := make(map[int]string, len(genres)+1)
	table[UndefinedGenreID] = UndefinedGenre
	for _, genre := range genres {
		table[genre.ID] = genre.Name
	}

	g.mu.Lock()
	g.table = table
	g.loaded = true
	g.mu.Unlock()

	g.logger.Debug().Int("count", len(genres)).Msg("Loaded genre catalog")
	return nil
}

// Loaded reports whether a Load has succeeded
func (g *GenreCatalog) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// Resolve returns the name for id, or UndefinedGenre when unknown
func (g *GenreCatalog) Resolve(id int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if name, ok := g.table[id]; ok {
		return name
	}
	return UndefinedGenre
}

// ResolveAll maps ids to names in order. An empty list resolves to the undefined genre.
func (g *GenreCatalog) ResolveAll(ids []int) []string {
	if len(ids) == 0 {
		return []string{g.Resolve(UndefinedGenreID)}
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, g.Resolve(id))
	}
	return names
}

// Genres returns the catalog sorted by id, sentinel first
func (g *GenreCatalog) Genres() []Genre {
	g.mu.RLock()
	defer g.mu.RUnlock()

	genres := make([]Genre, 0, len(g.table))
	for id, name := range g.table {
		genres = append(genres, Genre{ID: id, Name: name})
	}
	sort.Slice(genres, func(i, j int) bool {
		return genres[i].ID < genres[j].ID
	})
	return genres
}

func parseGenres(body []byte) ([]Genre, error) {
	var resp genresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Genres == nil {
		return nil, errors.New("missing field genres")
	}

	genres := make([]Genre, 0, len(*resp.Genres))
	for i, entry := range *resp.Genres {
		if entry.ID == nil || entry.Name == nil {
			return nil, fmt.Errorf("genre %d: missing id or name", i)
		}
		genres = append(genres, Genre{ID: *entry.ID, Name: *entry.Name})
	}
	return genres, nil
}
