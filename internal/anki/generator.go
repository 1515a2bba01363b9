package anki

import (
	"encoding/csv"
	"fmt"
	"os"
)

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output file path
	DeckName       string // Deck name for .apkg output
	DeckID         int64  // Deck id for .apkg output
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		DeckName:       DefaultDeckName,
		DeckID:         DefaultDeckID,
		IncludeHeaders: true,
	}
}

// Generator collects cards and writes them in one of the export formats
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns all cards added so far
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a two column (Front, Back) CSV file for Anki import.
// Media files are not bundled; copy them into Anki's collection.media folder.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{"Front", "Back"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		if err := writer.Write([]string{card.Front, card.Back}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// GenerateAPKG packages all cards and their media into an .apkg file
func (g *Generator) GenerateAPKG(outputPath string) (*APKGGenerator, error) {
	apkgGen := NewAPKGGenerator(g.options.DeckName, g.options.DeckID)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	if err := apkgGen.GenerateAPKG(outputPath); err != nil {
		return nil, err
	}
	return apkgGen, nil
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withImages int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
		if card.ImageFile != "" {
			withImages++
		}
	}

	return
}
