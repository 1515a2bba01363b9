package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// SafeName derives a filesystem-safe media name from a word.
// The word is lowercased and every rune outside [a-z0-9] becomes '_'.
func SafeName(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NoteGUID creates a stable note identifier from a word.
// Format: vd_sha1(word)[:12]
func NoteGUID(word string) string {
	hash := sha1.Sum([]byte(word))
	return "vd_" + hex.EncodeToString(hash[:])[:12]
}

// isSafeRune checks if a rune may appear in a safe name
func isSafeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
