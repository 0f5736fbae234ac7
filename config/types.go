package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Images  ImagesConfig  `mapstructure:"images"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ImagesConfig holds the image CDN bases
type ImagesConfig struct {
	BackdropURL string `mapstructure:"backdrop_url"`
	PosterURL   string `mapstructure:"poster_url"`
}

// OutputConfig controls console output
type OutputConfig struct {
	ShowDetails bool `mapstructure:"show_details"`
	FilterCache int  `mapstructure:"filter_cache"`
}

// FilterConfig contains named filter expressions usable with --filter
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}
