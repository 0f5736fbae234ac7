package tmdb

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	_ "golang.org/x/image/webp"
)

// PosterStatus is the outcome code of a poster fetch
type PosterStatus int

const (
	// StatusOK indicates the poster was fetched and decoded
	StatusOK PosterStatus = 0
	// StatusFailed indicates any failure
	StatusFailed PosterStatus = -1
)

// String returns the string representation of a PosterStatus
func (s PosterStatus) String() string {
	if s == StatusOK {
		return "OK"
	}
	return "FAILED"
}

// PosterResult is the outcome of FetchPoster
type PosterResult struct {
	Status PosterStatus
	Image  image.Image
	Err    error
}

// ImageReadyFunc receives a finished backdrop download. img is nil when the download
// failed.
type ImageReadyFunc func(recordID int, img image.Image)

// ImageFetcher downloads backdrop and poster images from the CDN
type ImageFetcher struct {
	client *Client
	logger zerolog.Logger
	wg     conc.WaitGroup
}

// NewImageFetcher creates an ImageFetcher
func NewImageFetcher(client *Client, logger zerolog.Logger) *ImageFetcher {
	return &ImageFetcher{
		client: client,
		logger: logger,
	}
}

// FetchBackdrop downloads the record's backdrop in the background and calls onReady
// exactly once. Records without a backdrop path are ignored. Failures are not retried.
func (f *ImageFetcher) FetchBackdrop(ctx context.Context, record MovieRecord, onReady ImageReadyFunc) {
	if !record.HasBackdrop() {
		return
	}

	f.wg.Go(func() {
		img, err := f.fetch(ctx, "backdrop", f.client.backdropURL, record.BackdropPath)
		if err != nil {
			f.logger.Debug().
				Err(err).
				Int("movie_id", record.ID).
				Str("path", record.BackdropPath).
				Msg("Backdrop download failed")
			img = nil
		}
		onReady(record.ID, img)
	})
}

// FetchPoster downloads the record's poster synchronously
func (f *ImageFetcher) FetchPoster(ctx context.Context, record MovieRecord) PosterResult {
	if !record.HasPoster() {
		return PosterResult{Status: StatusFailed, Err: fmt.Errorf("movie %d: %w", record.ID, ErrNoImagePath)}
	}

	img, err := f.fetch(ctx, "poster", f.client.posterURL, record.PosterPath)
	if err != nil {
		return PosterResult{Status: StatusFailed, Err: err}
	}
	return PosterResult{Status: StatusOK, Image: img}
}

// Wait blocks until every background download has reported
func (f *ImageFetcher) Wait() {
	f.wg.Wait()
}

func (f *ImageFetcher) fetch(ctx context.Context, op, base, path string) (image.Image, error) {
	body, err := f.client.getImage(ctx, op, base, path)
	if err != nil {
		return nil, err
	}
	return decodeImage(op, body)
}

func decodeImage(op string, body []byte) (image.Image, error) {
	mtype := mimetype.Detect(body)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, parseError(op, fmt.Errorf("unexpected content type %s", mtype.String()))
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, parseError(op, fmt.Errorf("decode %s: %w", mtype.String(), err))
	}
	return img, nil
}
