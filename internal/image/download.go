package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// DefaultMaxSizeBytes caps a downloaded image
const DefaultMaxSizeBytes = 5 * 1024 * 1024

// Downloader fetches image bytes for search results
type Downloader struct {
	searcher     ImageSearcher
	maxSizeBytes int64
}

// NewDownloader creates a new image downloader; maxSize <= 0 disables the cap
func NewDownloader(searcher ImageSearcher, maxSize int64) *Downloader {
	return &Downloader{
		searcher:     searcher,
		maxSizeBytes: maxSize,
	}
}

// DownloadImage downloads a single image into memory
func (d *Downloader) DownloadImage(ctx context.Context, result *SearchResult) ([]byte, error) {
	imageURL := result.ThumbnailURL
	if imageURL == "" {
		imageURL = result.URL
	}
	if imageURL == "" {
		return nil, fmt.Errorf("search result %s has no image URL", result.ID)
	}

	reader, err := d.searcher.Download(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if d.maxSizeBytes > 0 {
		// Read one byte past the limit to detect oversized images
		written, err := io.Copy(&buf, io.LimitReader(reader, d.maxSizeBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		if written > d.maxSizeBytes {
			return nil, fmt.Errorf("image exceeds maximum size of %d bytes", d.maxSizeBytes)
		}
	} else if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("downloaded image is empty")
	}
	return buf.Bytes(), nil
}

// DownloadBestMatch searches for query and downloads the first result that
// carries a thumbnail
func (d *Downloader) DownloadBestMatch(ctx context.Context, opts *SearchOptions) (*SearchResult, []byte, error) {
	results, err := d.searcher.Search(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("search failed: %w", err)
	}

	for i := range results {
		if results[i].ThumbnailURL == "" {
			continue
		}
		data, err := d.DownloadImage(ctx, &results[i])
		if err != nil {
			return nil, nil, err
		}
		return &results[i], data, nil
	}

	return nil, nil, fmt.Errorf("no images found for query: %s", opts.Query)
}
