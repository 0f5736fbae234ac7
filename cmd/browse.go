package cmd

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/session"
	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/tui"
)

var browseUpcoming bool

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Browse movies interactively",
	Long: `Open an interactive list of search results, or of upcoming movies with
--upcoming. The next page is loaded when the cursor reaches the last movie and
backdrops are downloaded in the background.

Keys: / new search, r retry after an error, q quit.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVarP(&browseUpcoming, "upcoming", "u", false, "browse upcoming movies instead of searching")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	endpoint, title := tmdb.SearchPath, "Search"
	if browseUpcoming {
		endpoint, title = tmdb.UpcomingPath, "Upcoming"
	}
	query := strings.Join(args, " ")

	return tui.Run(title, query, !browseUpcoming, func(listener session.Listener) (*session.Session, error) {
		return session.New(session.Config{Endpoint: endpoint}, session.Dependencies{
			Pager:    pages,
			Catalog:  catalog,
			Images:   images,
			Listener: listener,
		}, logger)
	}, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
}
