package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Catalog groups model ids by what vocabdeck can use them for
type Catalog struct {
	Speech []string // Text-to-speech models for pronunciations
	Chat   []string // Chat models for translation
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister; baseURL "" uses the public API
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

// List fetches and categorizes the models available to the API key
func (l *Lister) List(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .vocabdeck.yaml")
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	catalog := &Catalog{}
	for _, model := range list.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts"):
			catalog.Speech = append(catalog.Speech, id)
		case strings.HasPrefix(id, "gpt") && !strings.Contains(id, "audio") && !strings.Contains(id, "realtime"):
			catalog.Chat = append(catalog.Chat, id)
		}
	}

	sort.Strings(catalog.Speech)
	sort.Strings(catalog.Chat)
	return catalog, nil
}

// Print writes the catalog in a human readable form
func (c *Catalog) Print(w io.Writer) {
	fmt.Fprintln(w, "Available OpenAI Models:")
	printSection(w, "Text-to-Speech Models (audio.openai_model):", c.Speech)
	printSection(w, "Chat Models (--openai-model, used for translation):", c.Chat)
}

func printSection(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  No models found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
