package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vocabdeck/internal/breaker"
)

const (
	googleTTSURL     = "https://translate.google.com/translate_tts"
	googleTTSTimeout = 15 * time.Second
	// The endpoint rejects long inputs
	googleTTSMaxChars = 200
)

// GoogleProvider implements Provider with the translate_tts endpoint (MP3)
type GoogleProvider struct {
	baseURL    string
	language   string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewGoogleProvider creates a new Google TTS provider
func NewGoogleProvider(config *Config) *GoogleProvider {
	baseURL := config.GoogleBaseURL
	if baseURL == "" {
		baseURL = googleTTSURL
	}
	lang := config.Language
	if lang == "" {
		lang = "en"
	}
	return &GoogleProvider{
		baseURL:    baseURL,
		language:   lang,
		httpClient: &http.Client{Timeout: googleTTSTimeout},
		cb:         breaker.New(breaker.DefaultSettings("google-tts")),
	}
}

// SetHTTPClient replaces the HTTP client
func (p *GoogleProvider) SetHTTPClient(hc *http.Client) {
	p.httpClient = hc
}

// GenerateAudio writes an MP3 pronunciation of text to outputFile
func (p *GoogleProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateEnglishText(text); err != nil {
		return err
	}
	if len([]rune(text)) > googleTTSMaxChars {
		return fmt.Errorf("text longer than %d characters", googleTTSMaxChars)
	}

	data, err := breaker.Call(p.cb, func() ([]byte, error) {
		return p.fetch(ctx, text)
	})
	if err != nil {
		return fmt.Errorf("Google TTS error: %w", err)
	}

	return writeAudioFile(outputFile, data)
}

func (p *GoogleProvider) fetch(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", p.language)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received")
	}
	return data, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable always succeeds; the endpoint needs no credentials
func (p *GoogleProvider) IsAvailable() error {
	return nil
}

// writeAudioFile creates the parent directory and writes data
func writeAudioFile(outputFile string, data []byte) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
