package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/vocabdeck/internal/breaker"
)

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	model  string
	target string
	client *genai.Client
	cb     *gobreaker.CircuitBreaker
}

// NewGeminiTranslator creates a Gemini translator
func NewGeminiTranslator(ctx context.Context, cfg *Config) (*GeminiTranslator, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiTranslator{
		model:  model,
		target: LanguageName(cfg.TargetLanguage),
		client: client,
		cb:     breaker.New(breaker.DefaultSettings("gemini-translate")),
	}, nil
}

// Translate translates English text
func (g *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	return breaker.Call(g.cb, func() (string, error) {
		return g.translate(ctx, text)
	})
}

func (g *GeminiTranslator) translate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Translate the following English text to %s. Respond with only the translation, nothing else.\n\n%s", g.target, text)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}

// Name returns the provider name
func (g *GeminiTranslator) Name() string {
	return "gemini"
}
