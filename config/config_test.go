package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			URL:     "https://api.themoviedb.org/3",
			APIKey:  "valid-api-key",
			Timeout: 30 * time.Second,
		},
		Images: ImagesConfig{
			BackdropURL: "https://image.tmdb.org/t/p/w780",
			PosterURL:   "https://image.tmdb.org/t/p/w500",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(cfg *Config) {},
		},
		{
			name:    "missing url",
			modify:  func(cfg *Config) { cfg.TMDB.URL = "" },
			wantErr: "tmdb.url is required",
		},
		{
			name:    "missing api key",
			modify:  func(cfg *Config) { cfg.TMDB.APIKey = "" },
			wantErr: "tmdb.api_key",
		},
		{
			name:    "placeholder api key",
			modify:  func(cfg *Config) { cfg.TMDB.APIKey = "your-api-key-here" },
			wantErr: "tmdb.api_key",
		},
		{
			name:    "zero timeout",
			modify:  func(cfg *Config) { cfg.TMDB.Timeout = 0 },
			wantErr: "tmdb.timeout",
		},
		{
			name:    "missing poster base",
			modify:  func(cfg *Config) { cfg.Images.PosterURL = "" },
			wantErr: "images.poster_url",
		},
		{
			name:    "negative filter cache",
			modify:  func(cfg *Config) { cfg.Output.FilterCache = -1 },
			wantErr: "output.filter_cache",
		},
		{
			name:    "invalid level",
			modify:  func(cfg *Config) { cfg.Logging.Level = "trace" },
			wantErr: "invalid logging level: trace",
		},
		{
			name:    "invalid format",
			modify:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tmdb:
  api_key: file-key
  language: de-DE
  timeout: 5s
output:
  show_details: true
filter:
  recent: "Year >= 2020"
logging:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.URL)
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, "de-DE", cfg.TMDB.Language)
	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "https://image.tmdb.org/t/p/w780", cfg.Images.BackdropURL)
	assert.True(t, cfg.Output.ShowDetails)
	assert.Equal(t, 64, cfg.Output.FilterCache)
	assert.Equal(t, "Year >= 2020", cfg.Filter["recent"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tmdb:\n  api_key: file-key\n"), 0o600))

	t.Setenv("MARQUEE_TMDB_API_KEY", "env-key")
	t.Setenv("MARQUEE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config")
	})

	t.Run("no api key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
