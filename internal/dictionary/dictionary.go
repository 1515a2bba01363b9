package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vocabdeck/internal/breaker"
)

const (
	defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
	defaultTimeout = 15 * time.Second
)

// Definition is the result of a lookup
type Definition struct {
	Word     string
	Gloss    string // First sense gloss, empty if the word has no senses
	Phonetic string // IPA transcription when the dictionary has one
}

// Found reports whether a gloss was found
func (d Definition) Found() bool {
	return d.Gloss != ""
}

// Dictionary looks up definitions
type Dictionary interface {
	Define(ctx context.Context, word string) (Definition, error)
}

// APIError is returned for unexpected dictionary responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dictionary: status %d: %s", e.StatusCode, e.Message)
}

// entry mirrors one element of the Free Dictionary API response
type entry struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic"`
	Meanings []meaning `json:"meanings"`
}

type meaning struct {
	PartOfSpeech string  `json:"partOfSpeech"`
	Definitions  []sense `json:"definitions"`
}

type sense struct {
	Definition string `json:"definition"`
}

// Client queries the Free Dictionary API
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker guards requests with a circuit breaker
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.cb = cb }
}

// NewClient creates a dictionary client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Define returns the first sense of word.
// A word without senses is not an error: the returned Definition is empty.
func (c *Client) Define(ctx context.Context, word string) (Definition, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Definition{}, nil
	}

	entries, err := breaker.Call(c.cb, func() ([]entry, error) {
		return c.fetch(ctx, word)
	})
	if err != nil {
		return Definition{Word: word}, err
	}

	return firstSense(word, entries), nil
}

func (c *Client) fetch(ctx context.Context, word string) ([]entry, error) {
	reqURL := c.baseURL + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The API answers unknown words with 404 and a "No Definitions Found" body
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return entries, nil
}

func firstSense(word string, entries []entry) Definition {
	def := Definition{Word: word}
	for _, e := range entries {
		if def.Phonetic == "" {
			def.Phonetic = e.Phonetic
		}
		for _, m := range e.Meanings {
			for _, s := range m.Definitions {
				if gloss := strings.TrimSpace(s.Definition); gloss != "" {
					def.Gloss = gloss
					return def
				}
			}
		}
	}
	return def
}
