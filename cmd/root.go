package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/formatter"
	"github.com/s0up4200/marquee/tmdb"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *tmdb.Client
	catalog    *tmdb.GenreCatalog
	pages      *tmdb.PageFetcher
	images     *tmdb.ImageFetcher
	filters    *filter.Manager
	output     *formatter.ConsoleFormatter
	fileSystem afero.Fs = afero.NewOsFs()

	// Command flags
	showDetails bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse and search movies on The Movie Database",
	Long: `marquee is a CLI for The Movie Database (TMDB). It searches movies, lists
upcoming releases page by page, resolves genres and downloads posters. The browse
command opens an interactive list that loads more pages as you scroll.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&showDetails, "details", false, "show ids, release dates and synopses")
}

// initializeApp loads the configuration and wires the TMDB components
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("details") {
		cfg.Output.ShowDetails = showDetails
	}

	logger = setupLogger(cfg.Logging, cmd.Name() == browseCmd.Name())

	client, err = tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithImageURLs(cfg.Images.BackdropURL, cfg.Images.PosterURL),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	catalog = tmdb.NewGenreCatalog(client, logger)
	pages = tmdb.NewPageFetcher(client, catalog)
	images = tmdb.NewImageFetcher(client, logger)
	output = formatter.NewConsoleFormatter()

	filters = filter.NewManager(filter.WithCompiler(filter.NewExprCompiler(filter.WithCache(cfg.Output.FilterCache))))
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter in config: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger. Interactive commands never log to the
// terminal; without a log file their output is discarded.
func setupLogger(cfg config.LoggingConfig, interactive bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	color := cfg.Color
	switch {
	case cfg.File != "":
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		color = false
	case interactive:
		return zerolog.Nop()
	}

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
