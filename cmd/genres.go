package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the movie genres known to TMDB",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := catalog.Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load genres: %w", err)
		}

		fmt.Print(output.FormatGenres(catalog.Genres()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}
