package image

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vocabdeck/internal/breaker"
)

const (
	wikipediaAPIPath   = "/w/api.php"
	wikipediaTimeout   = 10 * time.Second
	wikipediaUserAgent = "vocabdeck/1.0 (flashcard generator)"
)

// WikipediaClient implements ImageSearcher with the MediaWiki pageimages API
type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]wikipediaPage `json:"pages"`
	} `json:"query"`
}

type wikipediaPage struct {
	PageID    int    `json:"pageid"`
	Title     string `json:"title"`
	Index     int    `json:"index"`
	Thumbnail *struct {
		Source string `json:"source"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnail"`
}

// NewWikipediaClient creates a client; baseURL "" means https://<lang>.wikipedia.org
func NewWikipediaClient(baseURL string, timeout time.Duration) *WikipediaClient {
	if timeout <= 0 {
		timeout = wikipediaTimeout
	}
	return &WikipediaClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         breaker.New(breaker.DefaultSettings("wikipedia")),
	}
}

// SetHTTPClient replaces the HTTP client
func (w *WikipediaClient) SetHTTPClient(hc *http.Client) {
	w.httpClient = hc
}

func (w *WikipediaClient) endpoint(lang string) string {
	if w.baseURL != "" {
		return w.baseURL + wikipediaAPIPath
	}
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("https://%s.wikipedia.org%s", lang, wikipediaAPIPath)
}

// Search finds pages matching the query and returns those with thumbnails
// first, in search rank order
func (w *WikipediaClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	return breaker.Call(w.cb, func() ([]SearchResult, error) {
		return w.search(ctx, opts)
	})
}

func (w *WikipediaClient) search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "pageimages")
	params.Set("generator", "search")
	params.Set("gsrsearch", opts.Query)
	params.Set("gsrlimit", fmt.Sprintf("%d", max(opts.PerPage, 1)))
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", fmt.Sprintf("%d", opts.ThumbSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint(opts.Language)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", wikipediaUserAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Provider: w.Name(), RetryAfter: 60}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &SearchError{
			Provider: w.Name(),
			Code:     fmt.Sprintf("%d", resp.StatusCode),
			Message:  strings.TrimSpace(string(body)),
		}
	}

	var wikiResp wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&wikiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	pages := make([]wikipediaPage, 0, len(wikiResp.Query.Pages))
	for _, p := range wikiResp.Query.Pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	results := make([]SearchResult, 0, len(pages))
	for _, p := range pages {
		r := SearchResult{
			ID:          fmt.Sprintf("%d", p.PageID),
			Description: p.Title,
			Source:      w.Name(),
		}
		if p.Thumbnail != nil {
			r.URL = p.Thumbnail.Source
			r.ThumbnailURL = p.Thumbnail.Source
			r.Width = p.Thumbnail.Width
			r.Height = p.Thumbnail.Height
		}
		results = append(results, r)
	}

	return results, nil
}

// Download downloads an image from the given URL
func (w *WikipediaClient) Download(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", wikipediaUserAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// Name returns the name of the search provider
func (w *WikipediaClient) Name() string {
	return "wikipedia"
}
