package tmdb

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreCatalog_ResolveBeforeLoad(t *testing.T) {
	catalog := NewGenreCatalog(nil, zerolog.Nop())

	assert.False(t, catalog.Loaded())
	assert.Equal(t, UndefinedGenre, catalog.Resolve(28))
	assert.Equal(t, UndefinedGenre, catalog.Resolve(UndefinedGenreID))
	assert.Equal(t, []string{UndefinedGenre}, catalog.ResolveAll(nil))
	assert.Empty(t, catalog.Genres())
}

func TestGenreCatalog_Load(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/genre/movie/list", r.URL.Path)
		w.Write([]byte(testGenres))
	})

	catalog := NewGenreCatalog(client, zerolog.Nop())
	require.NoError(t, catalog.Load(context.Background()))

	assert.True(t, catalog.Loaded())
	assert.Equal(t, "Action", catalog.Resolve(28))
	assert.Equal(t, "Comedy", catalog.Resolve(35))
	assert.Equal(t, UndefinedGenre, catalog.Resolve(99999))
	assert.Equal(t, UndefinedGenre, catalog.Resolve(UndefinedGenreID))

	assert.Equal(t, []Genre{
		{ID: -1, Name: "Undefined"},
		{ID: 12, Name: "Adventure"},
		{ID: 28, Name: "Action"},
		{ID: 35, Name: "Comedy"},
	}, catalog.Genres())
}

func TestGenreCatalog_ResolveAll(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testGenres))
	})
	catalog := NewGenreCatalog(client, zerolog.Nop())
	require.NoError(t, catalog.Load(context.Background()))

	tests := []struct {
		name string
		ids  []int
		want []string
	}{
		{name: "empty", ids: []int{}, want: []string{"Undefined"}},
		{name: "nil", ids: nil, want: []string{"Undefined"}},
		{name: "source order kept", ids: []int{35, 28}, want: []string{"Comedy", "Action"}},
		{name: "unknown id", ids: []int{28, 4242}, want: []string{"Action", "Undefined"}},
		{name: "duplicates kept", ids: []int{12, 12}, want: []string{"Adventure", "Adventure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ResolveAll(tt.ids))
		})
	}
}

func TestGenreCatalog_LoadFailureKeepsTable(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.Write([]byte(testGenres))
		case 2:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"genres":[{"id":28}]}`))
		}
	})

	catalog := NewGenreCatalog(client, zerolog.Nop())
	require.NoError(t, catalog.Load(context.Background()))

	err := catalog.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Equal(t, "Action", catalog.Resolve(28))

	err = catalog.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, "Action", catalog.Resolve(28))
	assert.True(t, catalog.Loaded())
}

func TestGenreCatalog_ReloadReplaces(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(testGenres))
			return
		}
		w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
	})

	catalog := NewGenreCatalog(client, zerolog.Nop())
	require.NoError(t, catalog.Load(context.Background()))
	require.NoError(t, catalog.Load(context.Background()))

	assert.Equal(t, "Drama", catalog.Resolve(18))
	assert.Equal(t, UndefinedGenre, catalog.Resolve(28))
	assert.Len(t, catalog.Genres(), 2)
}

func TestGenreCatalog_MissingGenresField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status_message":"nope"}`))
	})

	catalog := NewGenreCatalog(client, zerolog.Nop())
	err := catalog.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.False(t, catalog.Loaded())
}
