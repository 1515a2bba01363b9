package translation

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
	googleTranslateURL = "https://translate.googleapis.com/translate_a/single"
	googleTimeout      = 15 * time.Second
)

// GoogleTranslator uses the public translate endpoint (client=gtx)
type GoogleTranslator struct {
	baseURL    string
	source     string
	target     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewGoogleTranslator creates a Google translator
func NewGoogleTranslator(cfg *Config) *GoogleTranslator {
	baseURL := cfg.GoogleBaseURL
	if baseURL == "" {
		baseURL = googleTranslateURL
	}
	source := cfg.SourceLanguage
	if source == "" {
		source = "en"
	}
	target := cfg.TargetLanguage
	if target == "" {
		target = "vi"
	}
	return &GoogleTranslator{
		baseURL:    baseURL,
		source:     source,
		target:     target,
		httpClient: &http.Client{Timeout: googleTimeout},
		cb:         breaker.New(breaker.DefaultSettings("google-translate")),
	}
}

// SetHTTPClient replaces the HTTP client
func (g *GoogleTranslator) SetHTTPClient(hc *http.Client) {
	g.httpClient = hc
}

// Translate translates text
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	return breaker.Call(g.cb, func() (string, error) {
		return g.translate(ctx, text)
	})
}

func (g *GoogleTranslator) translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.source)
	params.Set("tl", g.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return joinSegments(raw)
}

// joinSegments concatenates the translated segments of a gtx response.
// The payload looks like [[["xin chào","hello",null,null,10], ...], null, "en"].
func joinSegments(raw []interface{}) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty response")
	}
	segments, ok := raw[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("malformed response")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return b.String(), nil
}

// Name returns the provider name
func (g *GoogleTranslator) Name() string {
	return "google"
}
