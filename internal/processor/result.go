package processor

import (
	"fmt"

	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/image"
	"codeberg.org/snonux/vocabdeck/internal/translation"
)

// Result describes one generated deck
type Result struct {
	RunID    string
	Dir      string
	DeckPath string
	Media    []string // Media names bundled into the deck
	Cards    []anki.Card
	Reports  []CardReport
}

// FallbackCount returns how many steps fell back over all cards
func (r *Result) FallbackCount() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Fallbacks)
	}
	return n
}

// CardReport tells what each step produced for a word
type CardReport struct {
	Word              string
	Line              int
	POS               string
	Definition        string
	Phonetic          string
	Back              string
	TranslationSource translation.Source
	ImageSource       image.Source
	ImageTitle        string
	ImageName         string
	AudioName         string
	Audio             bool
	Fallbacks         []string
}

func (r *CardReport) addFallback(step string, err error) {
	reason := step
	if err != nil {
		reason = fmt.Sprintf("%s: %v", step, err)
	}
	r.Fallbacks = append(r.Fallbacks, reason)
}

// Degraded reports whether any step fell back
func (r CardReport) Degraded() bool {
	return len(r.Fallbacks) > 0
}
