package analytics

import (
	"regexp"
	"strings"

	"call-analytics-server/pkg/rules"
)

// wordPattern defines the single word tokenization used by the prohibited
// scanner, the prohibited masker, and the compliance matcher: runs of
// alphanumerics and underscore. Keeping one definition guarantees that a
// word flagged by Scan is the same word replaced by Mask.
var wordPattern = regexp.MustCompile(`\b\w+\b`)

// tokenize splits text into lowercase word tokens.
func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// ScanProhibited reports whether any whole word of text, compared
// case-insensitively, is in the configured prohibited set.
func ScanProhibited(text string, prohibited rules.PhraseSet) bool {
	for _, word := range tokenize(text) {
		if prohibited.Contains(word) {
			return true
		}
	}
	return false
}

// MaskProhibited replaces each prohibited whole word with an equal-length
// run of asterisks. Punctuation and spacing around words are preserved
// exactly.
func MaskProhibited(text string, prohibited rules.PhraseSet) string {
	return wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		if prohibited.Contains(strings.ToLower(word)) {
			return strings.Repeat("*", len(word))
		}
		return word
	})
}
