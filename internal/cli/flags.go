package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputDir  string
	Listen     string
	BatchFile  string
	AnkiCSV    bool
	Archive    bool
	ListModels bool
	LogLevel   string

	// Deck flags
	DeckName string
	DeckID   int64

	// Pipeline flags
	Delay        time.Duration
	POSLabels    string
	Timeout      time.Duration
	Retention    time.Duration

	// Translation flags
	Translator  string
	TargetLang  string
	OpenAIModel string
	GeminiModel string

	// Audio flags
	AudioProvider string
	SkipAudio     bool
	OpenAIVoice   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Listen:        ":8080",
		LogLevel:      "info",
		DeckName:      "Vocabulary Deck",
		DeckID:        100123,
		Delay:         200 * time.Millisecond,
		POSLabels:     "en",
		Timeout:       10 * time.Second,
		Retention:     24 * time.Hour,
		Translator:    "google",
		TargetLang:    "vi",
		OpenAIModel:   "gpt-4o-mini",
		GeminiModel:   "gemini-2.0-flash",
		AudioProvider: "google",
		OpenAIVoice:   "alloy",
	}
}
