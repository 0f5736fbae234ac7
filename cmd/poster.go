package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/imagefile"
	"github.com/s0up4200/marquee/tmdb"
)

const defaultPosterConcurrency = 4

var (
	posterDir         string
	posterFormat      string
	posterConcurrency int
	skipExisting      bool
)

// posterCmd represents the poster command
var posterCmd = &cobra.Command{
	Use:   "poster <movie-id>...",
	Short: "Show movie details and save their posters",
	Long: `Fetch the details of one or more movies by TMDB id, print them and save each
poster into --out. Movies are fetched concurrently; a failure for one movie does
not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPoster,
}

func init() {
	posterCmd.Flags().StringVarP(&posterDir, "out", "o", ".", "directory to save posters in")
	posterCmd.Flags().StringVar(&posterFormat, "format", "jpeg", "poster file format (jpeg or png)")
	posterCmd.Flags().IntVarP(&posterConcurrency, "concurrency", "c", defaultPosterConcurrency, "movies fetched at once")
	posterCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "do not download posters that are already saved")
	rootCmd.AddCommand(posterCmd)
}

// posterOutcome is what happened to one requested movie
type posterOutcome struct {
	ID      int
	Details *tmdb.MovieDetails
	Path    string
	Skipped bool
	Err     error
}

type posterJob struct {
	fetcher     *tmdb.PageFetcher
	images      *tmdb.ImageFetcher
	writer      *imagefile.Writer
	dir         string
	concurrency int
	skip        bool
	logger      zerolog.Logger
}

func runPoster(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid movie id: %q", arg)
		}
		ids = append(ids, id)
	}

	format, err := imagefile.ParseFormat(posterFormat)
	if err != nil {
		return err
	}

	job := posterJob{
		fetcher:     pages,
		images:      images,
		writer:      imagefile.NewWriter(fileSystem, format, logger),
		dir:         posterDir,
		concurrency: posterConcurrency,
		skip:        skipExisting,
		logger:      logger,
	}

	outcomes, err := job.run(cmd.Context(), ids)
	if err != nil {
		return err
	}

	var failed int
	for _, outcome := range outcomes {
		if outcome.Details != nil {
			fmt.Print(output.FormatDetails(*outcome.Details))
		}
		switch {
		case outcome.Err != nil:
			failed++
			fmt.Printf("✗ %d: %v\n", outcome.ID, outcome.Err)
		case outcome.Skipped:
			fmt.Printf("• %d: poster already saved\n", outcome.ID)
		default:
			fmt.Printf("✓ %d: saved %s\n", outcome.ID, outcome.Path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d posters failed", failed, len(outcomes))
	}
	return nil
}

// run fetches details and posters for ids. Outcomes are returned in the order of ids;
// only a cancelled context is an error.
func (j posterJob) run(ctx context.Context, ids []int) ([]posterOutcome, error) {
	outcomes := make([]posterOutcome, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(j.concurrency, 1))

	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = j.fetchOne(ctx, id)
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (j posterJob) fetchOne(ctx context.Context, id int) posterOutcome {
	outcome := posterOutcome{ID: id}

	details, err := j.fetcher.FetchMovie(ctx, id)
	if err != nil {
		j.logger.Warn().Err(err).Int("movie_id", id).Msg("Failed to fetch movie details")
		outcome.Err = err
		return outcome
	}
	outcome.Details = details

	if j.skip && j.writer.Exists(j.dir, details.MovieRecord) {
		outcome.Skipped = true
		return outcome
	}

	poster := j.images.FetchPoster(ctx, details.MovieRecord)
	if poster.Status != tmdb.StatusOK {
		j.logger.Warn().Err(poster.Err).Int("movie_id", id).Msg("Failed to fetch poster")
		outcome.Err = poster.Err
		return outcome
	}

	path, err := j.writer.SavePoster(j.dir, details.MovieRecord, poster.Image)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Path = path

	return outcome
}
