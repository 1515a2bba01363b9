package anki

import (
	"archive/zip"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "anki_import.csv" {
		t.Errorf("Expected output path 'anki_import.csv', got '%s'", opts.OutputPath)
	}
	if opts.DeckName != DefaultDeckName {
		t.Errorf("Expected deck name %q, got %q", DefaultDeckName, opts.DeckName)
	}
	if opts.DeckID != DefaultDeckID {
		t.Errorf("Expected deck id %d, got %d", DefaultDeckID, opts.DeckID)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestGenerateCSV(t *testing.T) {
	tests := []struct {
		name           string
		includeHeaders bool
		wantRows       int
	}{
		{"with headers", true, 3},
		{"without headers", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputPath := filepath.Join(t.TempDir(), "cards.csv")
			gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath, IncludeHeaders: tt.includeHeaders})

			gen.AddCard(Card{Front: BuildFront("cat", "noun", "cat.jpg", "cat.mp3"), Back: "con mèo", Word: "cat"})
			gen.AddCard(Card{Front: BuildFront("hello, world", "other", "hello__world.jpg", ""), Back: "xin chào", Word: "hello, world"})

			if err := gen.GenerateCSV(); err != nil {
				t.Fatalf("GenerateCSV() error = %v", err)
			}

			file, err := os.Open(outputPath)
			if err != nil {
				t.Fatalf("Failed to open CSV: %v", err)
			}
			defer file.Close()

			records, err := csv.NewReader(file).ReadAll()
			if err != nil {
				t.Fatalf("Failed to parse CSV: %v", err)
			}
			if len(records) != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, len(records))
			}

			last := records[len(records)-1]
			if last[1] != "xin chào" {
				t.Errorf("Expected back 'xin chào', got %q", last[1])
			}
			if tt.includeHeaders && records[0][0] != "Front" {
				t.Errorf("Expected header row, got %v", records[0])
			}
		})
	}
}

func TestGenerateCSV_BadPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{OutputPath: filepath.Join(t.TempDir(), "missing", "x.csv")})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestGeneratorGenerateAPKG(t *testing.T) {
	dir := t.TempDir()
	paths := writeMedia(t, dir, "cat.jpg")

	gen := NewGenerator(&GeneratorOptions{DeckName: "My Words", DeckID: 7})
	gen.AddCard(testCard("cat", "con mèo", paths[0], ""))

	outputPath := filepath.Join(dir, "deck.apkg")
	apkg, err := gen.GenerateAPKG(outputPath)
	if err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}
	if apkg.deckName != "My Words" || apkg.deckID != 7 {
		t.Errorf("Options not passed through: %s/%d", apkg.deckName, apkg.deckID)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG: %v", err)
	}
	reader.Close()
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "cat", ImageFile: "cat.jpg", AudioFile: "cat.mp3"})
	gen.AddCard(Card{Word: "dog", ImageFile: "dog.jpg"})

	total, withAudio, withImages := gen.Stats()
	if total != 2 || withAudio != 1 || withImages != 2 {
		t.Errorf("Stats() = %d, %d, %d", total, withAudio, withImages)
	}
	if len(gen.GetCards()) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(gen.GetCards()))
	}
}
