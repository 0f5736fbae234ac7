package tmdb

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGenres = `{"genres":[{"id":28,"name":"Action"},{"id":12,"name":"Adventure"},{"id":35,"name":"Comedy"}]}`

// newTestClient starts a fake TMDB serving the API under /3 and images under /img.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/3", "test-key", zerolog.Nop(),
		WithImageURLs(server.URL+"/img/w780", server.URL+"/img/w500"),
	)
	require.NoError(t, err)
	return client, server
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "https://api.themoviedb.org/3/",
			apiKey:  "test-key",
		},
		{
			name:    "missing URL",
			baseURL: "",
			apiKey:  "test-key",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing API key",
			baseURL: "https://api.themoviedb.org/3",
			apiKey:  "",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://api.themoviedb.org/3", client.baseURL)
			assert.Equal(t, DefaultBackdropURL, client.backdropURL)
			assert.Equal(t, DefaultPosterURL, client.posterURL)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})

	t.Run("with image urls", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithImageURLs("http://cdn/w1280/", ""))
		require.NoError(t, err)
		assert.Equal(t, "http://cdn/w1280", client.backdropURL)
		assert.Equal(t, DefaultPosterURL, client.posterURL)
	})
}

func TestClientRequestParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/genre/movie/list", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "pt-BR", r.URL.Query().Get("language"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(testGenres))
	})
	WithLanguage("pt-BR")(client)

	_, err := client.getJSON(context.Background(), "genres", GenreListPath, nil)
	require.NoError(t, err)
}

func TestFetchErrorKinds(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.getJSON(context.Background(), "genres", GenreListPath, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrHTTPStatus)
		assert.NotErrorIs(t, err, ErrNetwork)

		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
		assert.True(t, fe.IsUnauthorized())
		assert.False(t, fe.IsNotFound())
		assert.Contains(t, fe.Error(), "status 401")
	})

	t.Run("network", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client, err := NewClient(server.URL, "test-key", zerolog.Nop())
		require.NoError(t, err)

		_, err = client.getJSON(context.Background(), "genres", GenreListPath, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNetwork)
	})
}
