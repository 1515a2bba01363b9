package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrEmptyText is reported for blank input
var ErrEmptyText = errors.New("nothing to translate")

// Translator translates English text into a target language
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Name() string
}

// Source tells where a Result's text came from
type Source string

const (
	SourceProvider Source = "provider"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result is the outcome of a translation.
// On fallback Text is the input unchanged and Err holds the cause.
type Result struct {
	Input  string
	Text   string
	Source Source
	Err    error
}

// Fallback reports whether the text is the untranslated input
func (r Result) Fallback() bool {
	return r.Source == SourceFallback
}

// Service wraps a Translator with caching and the pass-through fallback
type Service struct {
	translator Translator
	cache      *TranslationCache
}

// NewService creates a translation service
func NewService(t Translator) *Service {
	return &Service{
		translator: t,
		cache:      NewTranslationCache(),
	}
}

// Translate returns a Result for text; it never fails
func (s *Service) Translate(ctx context.Context, text string) Result {
	res := Result{Input: text, Text: text, Source: SourceFallback}

	if strings.TrimSpace(text) == "" {
		res.Err = ErrEmptyText
		return res
	}

	if cached, ok := s.cache.Get(text); ok {
		res.Text = cached
		res.Source = SourceCache
		return res
	}

	if s.translator == nil {
		res.Err = fmt.Errorf("no translator configured")
		return res
	}

	translated, err := s.translator.Translate(ctx, text)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", s.translator.Name(), err)
		return res
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		res.Err = fmt.Errorf("%s: empty translation", s.translator.Name())
		return res
	}

	s.cache.Add(text, translated)
	res.Text = translated
	res.Source = SourceProvider
	return res
}

// Name returns the underlying provider name
func (s *Service) Name() string {
	if s.translator == nil {
		return "none"
	}
	return s.translator.Name()
}

// TranslationCache stores translations in memory for a run
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[text] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[text]
	return translation, ok
}

// GetAll returns a copy of all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

// LanguageName returns the English name of a language code for prompts
func LanguageName(code string) string {
	switch strings.ToLower(code) {
	case "vi":
		return "Vietnamese"
	case "bg":
		return "Bulgarian"
	case "de":
		return "German"
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	case "ja":
		return "Japanese"
	default:
		return code
	}
}

// NewTranslator creates the provider selected by name
func NewTranslator(cfg *Config) (Translator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Provider {
	case "google", "":
		return NewGoogleTranslator(cfg), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAITranslator(cfg), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiTranslator(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
}

// Config holds translation provider settings
type Config struct {
	Provider       string // "google", "openai" or "gemini"
	SourceLanguage string
	TargetLanguage string

	GoogleBaseURL string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
}

// DefaultConfig returns English to Vietnamese via Google
func DefaultConfig() *Config {
	return &Config{
		Provider:       "google",
		SourceLanguage: "en",
		TargetLanguage: "vi",
		OpenAIModel:    "gpt-4o-mini",
		GeminiModel:    "gemini-2.0-flash",
	}
}
