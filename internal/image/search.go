package image

import (
	"context"
	"io"
)

// SearchResult represents a single image search result
type SearchResult struct {
	ID           string // Page identifier
	URL          string // Direct URL to the image
	ThumbnailURL string // URL to thumbnail version
	Width        int    // Image width in pixels
	Height       int    // Image height in pixels
	Description  string // Page title
	Source       string // Source provider (e.g., "wikipedia")
}

// SearchOptions configures the image search
type SearchOptions struct {
	Query     string // Search query (English word)
	Language  string // Wiki language code (default: "en")
	PerPage   int    // Number of pages to request
	ThumbSize int    // Thumbnail width in pixels
}

// DefaultSearchOptions returns the single best match with a 400px thumbnail
func DefaultSearchOptions(query string) *SearchOptions {
	return &SearchOptions{
		Query:     query,
		Language:  "en",
		PerPage:   1,
		ThumbSize: 400,
	}
}

// ImageSearcher defines the interface for image search providers
type ImageSearcher interface {
	// Search performs an image search with the given options
	Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error)

	// Download downloads an image from the given URL
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Name returns the name of the search provider
	Name() string
}

// SearchError represents an error from an image search provider
type SearchError struct {
	Provider string
	Code     string
	Message  string
}

func (e *SearchError) Error() string {
	return e.Provider + ": " + e.Message
}

// RateLimitError indicates that the API rate limit has been exceeded
type RateLimitError struct {
	Provider   string
	RetryAfter int // Seconds to wait before retry
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded"
}
