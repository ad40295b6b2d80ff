package services

import (
	"strings"
	"unicode"
)

// ExtractModel guesses the model designation in a listing title: the first
// word longer than two characters that is all upper case or contains a
// digit, joined with the word after it. Titles without such a word fall
// back to their first word.
func ExtractModel(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return "Unknown"
	}

	for i, w := range words {
		if len([]rune(w)) > 2 && (isUpperWord(w) || strings.IndexFunc(w, unicode.IsDigit) >= 0) {
			end := i + 2
			if end > len(words) {
				end = len(words)
			}
			return strings.Join(words[i:end], " ")
		}
	}
	return words[0]
}

// isUpperWord reports whether w has at least one letter and no lower-case ones.
func isUpperWord(w string) bool {
	hasUpper := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
