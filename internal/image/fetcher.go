package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Source tells where a Result's image came from
type Source string

const (
	SourceSearch      Source = "wikipedia"
	SourcePlaceholder Source = "placeholder"
)

// Result is a fetched image, always usable.
// Err holds the reason when the placeholder was used.
type Result struct {
	Data   []byte
	Source Source
	Title  string // Matched page title
	Err    error
}

// Placeholder reports whether the image is the generated fallback
func (r Result) Placeholder() bool {
	return r.Source == SourcePlaceholder
}

// Fetcher finds a picture for a word and falls back to a placeholder
type Fetcher struct {
	downloader *Downloader
	thumbSize  int
	language   string
}

// NewFetcher creates a fetcher backed by searcher; thumbSize <= 0 means 400px
func NewFetcher(searcher ImageSearcher, thumbSize int) *Fetcher {
	if thumbSize <= 0 {
		thumbSize = 400
	}
	return &Fetcher{
		downloader: NewDownloader(searcher, DefaultMaxSizeBytes),
		thumbSize:  thumbSize,
		language:   "en",
	}
}

// Fetch returns JPEG bytes for word; it never fails
func (f *Fetcher) Fetch(ctx context.Context, word string) Result {
	opts := DefaultSearchOptions(word)
	opts.ThumbSize = f.thumbSize
	opts.Language = f.language

	found, data, err := f.downloader.DownloadBestMatch(ctx, opts)
	if err == nil {
		var jpg []byte
		jpg, err = toJPEG(data)
		if err == nil {
			return Result{Data: jpg, Source: SourceSearch, Title: found.Description}
		}
	}

	return f.placeholder(word, err)
}

func (f *Fetcher) placeholder(word string, cause error) Result {
	data, err := Placeholder(word)
	if err != nil {
		// Encoding an in-memory RGBA image does not fail in practice;
		// keep the contract by returning a blank JPEG.
		data = blankJPEG()
		cause = fmt.Errorf("%v; placeholder: %w", cause, err)
	}
	return Result{Data: data, Source: SourcePlaceholder, Err: cause}
}

// toJPEG decodes any registered format and re-encodes it as JPEG
func toJPEG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}

func blankJPEG() []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1)), nil)
	return buf.Bytes()
}
