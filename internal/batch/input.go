package batch

import (
	"fmt"
	"os"
	"strings"
)

// WordEntry is one trimmed, non-empty line of user input
type WordEntry struct {
	Word string
	// Line is the 1-based input line the word came from
	Line int
}

// ParseWords splits text into word entries.
// Lines are trimmed, empty lines dropped and repeated lines keep only their
// first occurrence.
func ParseWords(text string) []WordEntry {
	var entries []WordEntry
	seen := make(map[string]bool)

	for i, line := range strings.Split(text, "\n") {
		word := strings.TrimSpace(line)
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		entries = append(entries, WordEntry{Word: word, Line: i + 1})
	}

	return entries
}

// ReadBatchFile reads words from a file, one per line
func ReadBatchFile(filename string) ([]WordEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseWords(string(content)), nil
}

// Words returns the plain words of the entries
func Words(entries []WordEntry) []string {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}
