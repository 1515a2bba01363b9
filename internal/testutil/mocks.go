package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/vocabdeck/internal/dictionary"
	"codeberg.org/snonux/vocabdeck/internal/image"
	"codeberg.org/snonux/vocabdeck/internal/lexical"
)

// MockTagger returns fixed categories, Other for unknown words
type MockTagger struct {
	Categories map[string]lexical.Category
}

// Tag implements lexical.Tagger
func (m *MockTagger) Tag(word string) lexical.Category {
	return m.Categories[word]
}

// MockDictionary mocks the definition lookup
type MockDictionary struct {
	Glosses map[string]string
	Errors  map[string]error

	mu    sync.Mutex
	Calls []string
}

// Define implements dictionary.Dictionary
func (m *MockDictionary) Define(ctx context.Context, word string) (dictionary.Definition, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, word)
	m.mu.Unlock()

	if err, ok := m.Errors[word]; ok {
		return dictionary.Definition{Word: word}, err
	}
	return dictionary.Definition{Word: word, Gloss: m.Glosses[word]}, nil
}

// MockTranslator mocks a translation provider
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	// Default is returned for texts without an entry; empty means
	// "mock translation of <text>"
	Default string

	mu    sync.Mutex
	Calls []string
}

// Translate implements translation.Translator
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name implements translation.Translator
func (m *MockTranslator) Name() string {
	return "mock"
}

// CallsFor counts how often text was translated
func (m *MockTranslator) CallsFor(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == text {
			n++
		}
	}
	return n
}

// MockImageFetcher returns Data for every word; words listed in Missing get
// a placeholder result
type MockImageFetcher struct {
	Data    []byte
	Missing map[string]bool
}

// Fetch implements the processor's image fetcher
func (m *MockImageFetcher) Fetch(ctx context.Context, word string) image.Result {
	if m.Missing[word] {
		data, _ := image.Placeholder(word)
		return image.Result{Data: data, Source: image.SourcePlaceholder, Err: fmt.Errorf("no page with a thumbnail")}
	}
	return image.Result{Data: m.Data, Source: image.SourceSearch, Title: word}
}

// MockAudioProvider writes Data to the output file. Words in Fail produce
// an error; with Partial set a truncated file is left behind first.
type MockAudioProvider struct {
	Data    []byte
	Fail    map[string]bool
	Partial bool

	mu    sync.Mutex
	Calls []string
}

// GenerateAudio implements audio.Provider
func (m *MockAudioProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if m.Fail[text] {
		if m.Partial {
			os.WriteFile(outputFile, []byte{0xFF}, 0644)
		}
		return fmt.Errorf("mock TTS failure for %q", text)
	}
	return os.WriteFile(outputFile, m.Data, 0644)
}

// Name implements audio.Provider
func (m *MockAudioProvider) Name() string {
	return "mock"
}

// IsAvailable implements audio.Provider
func (m *MockAudioProvider) IsAvailable() error {
	return nil
}
