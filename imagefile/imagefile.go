// Package imagefile writes downloaded movie images to disk.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/s0up4200/marquee/tmdb"
)

// Format is an output image encoding
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

const jpegQuality = 90

var (
	// ErrNoImage is returned when there is nothing to save
	ErrNoImage = errors.New("no image to save")
	// ErrUnknownFormat is returned for unsupported output formats
	ErrUnknownFormat = errors.New("unknown image format")
)

// ParseFormat accepts "jpeg", "jpg" or "png", case-insensitive
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension for the format
func (f Format) Ext() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".jpg"
}

// Writer saves images below a directory of a filesystem
type Writer struct {
	fs     afero.Afero
	format Format
	logger zerolog.Logger
}

// NewWriter creates a writer. Pass afero.NewOsFs() for the real filesystem.
func NewWriter(fs afero.Fs, format Format, logger zerolog.Logger) *Writer {
	return &Writer{
		fs:     afero.Afero{Fs: fs},
		format: format,
		logger: logger.With().Str("component", "imagefile").Logger(),
	}
}

// FileName returns the file name used for a movie's poster, e.g. "550-fight-club.jpg"
func (w *Writer) FileName(movie tmdb.MovieRecord) string {
	slug := lo.KebabCase(movie.Title)
	if slug == "" {
		return fmt.Sprintf("%d%s", movie.ID, w.format.Ext())
	}
	return fmt.Sprintf("%d-%s%s", movie.ID, slug, w.format.Ext())
}

// SavePoster encodes img and writes it into dir, creating dir when needed. The file is
// written to a temporary name first and renamed, so readers never see a partial image.
func (w *Writer) SavePoster(dir string, movie tmdb.MovieRecord, img image.Image) (string, error) {
	if img == nil {
		return "", ErrNoImage
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, w.format); err != nil {
		return "", fmt.Errorf("failed to encode poster for movie %d: %w", movie.ID, err)
	}

	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, w.FileName(movie))
	tmp := path + ".tmp"

	if err := w.fs.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return "", fmt.Errorf("failed to move poster into place: %w", err)
	}

	w.logger.Debug().
		Int("movie_id", movie.ID).
		Str("path", path).
		Int("bytes", buf.Len()).
		Msg("Saved poster")

	return path, nil
}

// Exists reports whether a poster for movie is already present in dir. A file that
// cannot be checked counts as missing.
func (w *Writer) Exists(dir string, movie tmdb.MovieRecord) bool {
	path := filepath.Join(dir, w.FileName(movie))
	if _, err := w.fs.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Debug().Err(err).Str("path", path).Msg("Could not check for existing poster")
		}
		return false
	}
	return true
}

func encode(buf *bytes.Buffer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(buf, img)
	case FormatJPEG:
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
