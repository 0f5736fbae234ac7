package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/formatter"
	"github.com/s0up4200/marquee/session"
	"github.com/s0up4200/marquee/tmdb"
)

var (
	maxPages   int
	filterExpr string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Long: `Search TMDB for movies matching the query. Results are fetched page by page
until --pages pages have been read or the listing is exhausted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd.Context(), tmdb.SearchPath, strings.Join(args, " "))
	},
}

// upcomingCmd represents the upcoming command
var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd.Context(), tmdb.UpcomingPath, "")
	},
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, upcomingCmd} {
		c.Flags().IntVarP(&maxPages, "pages", "n", 1, "number of result pages to fetch")
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or name of a filter from config")
		rootCmd.AddCommand(c)
	}
}

type listUpdate struct {
	records     []tmdb.MovieRecord
	currentPage int
	totalPages  int
}

func runListing(ctx context.Context, endpoint, query string) error {
	if maxPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	var movieFilter filter.CompiledFilter
	if filterExpr != "" {
		var err error
		movieFilter, err = filters.Resolve(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("query", query).
		Int("pages", maxPages).
		Msg("Fetching movies")

	result, err := collectPages(ctx, endpoint, query, maxPages)
	if err != nil {
		return err
	}

	movies := filter.Apply(movieFilter, result.records)
	if movieFilter != nil {
		logger.Debug().
			Str("filter", movieFilter.Expression()).
			Int("matched", len(movies)).
			Int("total", len(result.records)).
			Msg("Applied filter")
	}

	fmt.Print(output.FormatMovieList(movies, formatter.FormatOptions{
		ShowDetails: cfg.Output.ShowDetails,
		CurrentPage: result.currentPage,
		TotalPages:  result.totalPages,
	}))
	fmt.Println()

	return nil
}

// collectPages drives a session until limit pages are merged or no pages are left.
func collectPages(ctx context.Context, endpoint, query string, limit int) (listUpdate, error) {
	updates := make(chan listUpdate, 1)
	failures := make(chan string, 1)

	// Cancelled before Close so no callback is left blocked on a send.
	ctx, cancel := context.WithCancel(ctx)

	sess, err := session.New(session.Config{Endpoint: endpoint}, session.Dependencies{
		Pager:   pages,
		Catalog: catalog,
		Listener: session.ListenerFuncs{
			ListChanged: func(records []tmdb.MovieRecord, currentPage, totalPages int) {
				select {
				case updates <- listUpdate{records: records, currentPage: currentPage, totalPages: totalPages}:
				case <-ctx.Done():
				}
			},
			Error: func(message string, retry func()) {
				select {
				case failures <- message:
				case <-ctx.Done():
				}
			},
		},
	}, logger)
	if err != nil {
		cancel()
		return listUpdate{}, err
	}
	defer func() {
		cancel()
		sess.Close()
	}()

	sess.Start(query)

	var last listUpdate
	for {
		select {
		case last = <-updates:
		case message := <-failures:
			return last, errors.New(message)
		case <-ctx.Done():
			return last, ctx.Err()
		}

		if last.currentPage >= limit || last.currentPage >= last.totalPages {
			return last, nil
		}
		sess.RequestNextPageIfNeeded(len(last.records) - 1)
	}
}
