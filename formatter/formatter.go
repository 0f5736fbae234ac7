// Package formatter renders movie listings for the console.
package formatter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/s0up4200/marquee/tmdb"
)

const synopsisWidth = 160

// FormatOptions controls how much of each movie is printed
type FormatOptions struct {
	ShowDetails bool
	// Pages that were fetched and the total available, shown in the header when set
	CurrentPage int
	TotalPages  int
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []tmdb.MovieRecord, options FormatOptions) string {
	if len(movies) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d)", len(movies))
	if options.TotalPages > 0 {
		fmt.Fprintf(&sb, ", page %d of %d", options.CurrentPage, options.TotalPages)
	}
	sb.WriteString(":\n\n")

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatDetails formats a single movie with everything known about it
func (f *ConsoleFormatter) FormatDetails(details tmdb.MovieDetails) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s\n", TitleWithYear(details.MovieRecord))
	if details.Tagline != "" {
		fmt.Fprintf(&sb, "  %q\n", details.Tagline)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "ID:       %d\n", details.ID)
	fmt.Fprintf(&sb, "Released: %s\n", lo.Ternary(details.ReleaseDate != "", details.ReleaseDate, "unknown"))
	fmt.Fprintf(&sb, "Genres:   %s\n", details.GenreLabel())
	if details.Runtime > 0 {
		fmt.Fprintf(&sb, "Runtime:  %dh %02dm\n", details.Runtime/60, details.Runtime%60)
	}
	if details.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%s\n", details.Synopsis)
	}

	return sb.String()
}

// FormatGenres formats the genre catalog, one genre per line
func (f *ConsoleFormatter) FormatGenres(genres []tmdb.Genre) string {
	genres = lo.Reject(genres, func(g tmdb.Genre, _ int) bool {
		return g.ID == tmdb.UndefinedGenreID
	})
	if len(genres) == 0 {
		return "No genres found"
	}

	width := lo.Max(lo.Map(genres, func(g tmdb.Genre, _ int) int {
		return len(fmt.Sprint(g.ID))
	}))

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nGenres (%d):\n\n", len(genres))
	for _, g := range genres {
		fmt.Fprintf(&sb, "  %*d  %s\n", width, g.ID, g.Name)
	}
	return sb.String()
}

// TitleWithYear renders "Title (Year)", or "Title (TBA)" without a release date
func TitleWithYear(movie tmdb.MovieRecord) string {
	if year := movie.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", movie.Title, year)
	}
	return fmt.Sprintf("%s (TBA)", movie.Title)
}

func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie tmdb.MovieRecord, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s\n", prefix, TitleWithYear(movie))

	indent := "│   "
	if isLast {
		indent = "    "
	}

	fmt.Fprintf(sb, "%sGenres: %s\n", indent, movie.GenreLabel())

	if !options.ShowDetails {
		return
	}

	fmt.Fprintf(sb, "%sID: %d", indent, movie.ID)
	if movie.ReleaseDate != "" {
		fmt.Fprintf(sb, " | Released: %s", movie.ReleaseDate)
	}
	sb.WriteString("\n")

	if movie.Synopsis != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, lo.Ellipsis(strings.Join(strings.Fields(movie.Synopsis), " "), synopsisWidth))
	}
}
