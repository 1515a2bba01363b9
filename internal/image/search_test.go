package image

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockSearcher implements ImageSearcher for testing
type mockSearcher struct {
	name          string
	searchResults []SearchResult
	searchErr     error
	downloadErr   error
	data          []byte
	downloads     []string
}

func (m *mockSearcher) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockSearcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	m.downloads = append(m.downloads, url)
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	data := m.data
	if data == nil {
		data = []byte("mock image data")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (m *mockSearcher) Name() string {
	return m.name
}

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions("cat")

	if opts.Query != "cat" {
		t.Errorf("Expected query 'cat', got '%s'", opts.Query)
	}
	if opts.Language != "en" {
		t.Errorf("Expected language 'en', got '%s'", opts.Language)
	}
	if opts.PerPage != 1 {
		t.Errorf("Expected PerPage 1, got %d", opts.PerPage)
	}
	if opts.ThumbSize != 400 {
		t.Errorf("Expected ThumbSize 400, got %d", opts.ThumbSize)
	}
}

func TestSearchError(t *testing.T) {
	err := &SearchError{Provider: "test", Code: "404", Message: "Not found"}
	if err.Error() != "test: Not found" {
		t.Errorf("Unexpected error text '%s'", err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{Provider: "test", RetryAfter: 60}
	if err.Error() != "test: rate limit exceeded" {
		t.Errorf("Unexpected error text '%s'", err.Error())
	}
}

func TestDownloadBestMatch_SkipsResultsWithoutThumbnail(t *testing.T) {
	searcher := &mockSearcher{
		name: "mock",
		searchResults: []SearchResult{
			{ID: "1", Description: "No picture"},
			{ID: "2", ThumbnailURL: "https://example.com/cat.jpg", Description: "Cat"},
		},
	}

	d := NewDownloader(searcher, 0)
	result, data, err := d.DownloadBestMatch(context.Background(), DefaultSearchOptions("cat"))
	if err != nil {
		t.Fatalf("DownloadBestMatch() error = %v", err)
	}
	if result.ID != "2" {
		t.Errorf("Expected result 2, got %s", result.ID)
	}
	if string(data) != "mock image data" {
		t.Errorf("Unexpected data %q", data)
	}
	if len(searcher.downloads) != 1 || searcher.downloads[0] != "https://example.com/cat.jpg" {
		t.Errorf("Unexpected downloads %v", searcher.downloads)
	}
}

func TestDownloadBestMatch_NoResults(t *testing.T) {
	d := NewDownloader(&mockSearcher{name: "mock"}, 0)
	if _, _, err := d.DownloadBestMatch(context.Background(), DefaultSearchOptions("xqzvv")); err == nil {
		t.Error("Expected error when nothing matches")
	}
}

func TestDownloadBestMatch_SearchError(t *testing.T) {
	d := NewDownloader(&mockSearcher{searchErr: errors.New("offline")}, 0)
	_, _, err := d.DownloadBestMatch(context.Background(), DefaultSearchOptions("cat"))
	if err == nil || !strings.Contains(err.Error(), "offline") {
		t.Errorf("Expected wrapped search error, got %v", err)
	}
}

func TestDownloadImage_SizeLimit(t *testing.T) {
	searcher := &mockSearcher{data: []byte(strings.Repeat("x", 100))}

	d := NewDownloader(searcher, 10)
	_, err := d.DownloadImage(context.Background(), &SearchResult{ThumbnailURL: "https://example.com/big.jpg"})
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum size") {
		t.Errorf("Expected size error, got %v", err)
	}

	d = NewDownloader(searcher, 100)
	data, err := d.DownloadImage(context.Background(), &SearchResult{ThumbnailURL: "https://example.com/ok.jpg"})
	if err != nil || len(data) != 100 {
		t.Errorf("Expected 100 bytes at the limit, got %d, %v", len(data), err)
	}
}

func TestDownloadImage_NoURL(t *testing.T) {
	d := NewDownloader(&mockSearcher{}, 0)
	if _, err := d.DownloadImage(context.Background(), &SearchResult{ID: "x"}); err == nil {
		t.Error("Expected error for result without URL")
	}
}
