package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/marquee/tmdb"
)

var (
	accentColor = lipgloss.Color("205")
	faintColor  = lipgloss.Color("8")
	errorColor  = lipgloss.Color("9")

	faintStyle = lipgloss.NewStyle().Foreground(faintColor)
	imageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// backdropState is what the row shows in place of the backdrop
type backdropState int

const (
	backdropNone backdropState = iota
	backdropLoading
	backdropReady
	backdropFailed
)

// movieItem implements list.DefaultItem for one record
type movieItem struct {
	record   tmdb.MovieRecord
	backdrop backdropState
}

func newMovieItem(record tmdb.MovieRecord, reported bool) movieItem {
	item := movieItem{record: record}
	switch {
	case !record.HasBackdrop():
		item.backdrop = backdropNone
	case record.BackdropImage != nil:
		item.backdrop = backdropReady
	case reported:
		item.backdrop = backdropFailed
	default:
		item.backdrop = backdropLoading
	}
	return item
}

func (i movieItem) Title() string {
	if year := i.record.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", i.record.Title, year)
	}
	return i.record.Title
}

func (i movieItem) Description() string {
	parts := []string{i.record.GenreLabel()}

	switch i.backdrop {
	case backdropLoading:
		parts = append(parts, faintStyle.Render("◌ loading backdrop"))
	case backdropReady:
		b := i.record.BackdropImage.Bounds()
		parts = append(parts, imageStyle.Render(fmt.Sprintf("▣ %dx%d", b.Dx(), b.Dy())))
	case backdropFailed:
		parts = append(parts, faintStyle.Render("✕ backdrop unavailable"))
	default:
		parts = append(parts, faintStyle.Render("□ no backdrop"))
	}

	return strings.Join(parts, " • ")
}

func (i movieItem) FilterValue() string {
	return i.record.Title
}
