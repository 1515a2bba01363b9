package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateEnglishText checks that text has something pronounceable
func ValidateEnglishText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return nil
		}
	}

	return fmt.Errorf("text must contain letters or digits")
}
