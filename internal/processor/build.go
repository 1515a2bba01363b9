package processor

import (
	"fmt"
	"log/slog"
	"net/http"

	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/breaker"
	"codeberg.org/snonux/vocabdeck/internal/cli"
	"codeberg.org/snonux/vocabdeck/internal/dictionary"
	"codeberg.org/snonux/vocabdeck/internal/image"
	"codeberg.org/snonux/vocabdeck/internal/lexical"
	"codeberg.org/snonux/vocabdeck/internal/translation"
	"codeberg.org/snonux/vocabdeck/internal/workspace"
)

// NewFromConfig wires the production stages selected by cfg
func NewFromConfig(cfg *cli.Config, ws *workspace.Workspace, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	translator, err := translation.NewTranslator(&translation.Config{
		Provider:       cfg.Translation.Provider,
		SourceLanguage: "en",
		TargetLanguage: cfg.Translation.TargetLang,
		OpenAIKey:      cfg.Translation.OpenAIKey,
		OpenAIModel:    cfg.Translation.OpenAIModel,
		GeminiKey:      cfg.Translation.GeminiKey,
		GeminiModel:    cfg.Translation.GeminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	provider, err := audio.NewProvider(&audio.Config{
		Provider:    cfg.Audio.AudioProvider(),
		Language:    "en",
		OpenAIKey:   cfg.Audio.OpenAIKey,
		OpenAIModel: cfg.Audio.OpenAIModel,
		OpenAIVoice: cfg.Audio.OpenAIVoice,
		OpenAISpeed: 1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	dict := dictionary.NewClient(
		dictionary.WithHTTPClient(&http.Client{Timeout: cfg.Pipeline.Timeout}),
		dictionary.WithBreaker(breaker.New(breaker.DefaultSettings("dictionary"))),
	)

	deps := Deps{
		Tagger:     lexical.NewProseTagger(),
		Dictionary: dict,
		Translator: translator,
		Images:     image.NewFetcher(image.NewWikipediaClient("", cfg.Pipeline.Timeout), 0),
		Audio:      provider,
		Workspace:  ws,
		Logger:     logger,
	}

	logger.Info("pipeline configured",
		"translator", translator.Name(),
		"audio", cfg.Audio.AudioProvider(),
		"delay", cfg.Pipeline.Delay,
		"timeout", cfg.Pipeline.Timeout)

	return New(deps, Options{
		DeckName:    cfg.Deck.Name,
		DeckID:      cfg.Deck.ID,
		Delay:       cfg.Pipeline.Delay,
		StepTimeout: cfg.Pipeline.Timeout,
		POSLabels:   cfg.Pipeline.POSLabels,
	})
}
