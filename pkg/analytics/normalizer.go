package analytics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"call-analytics-server/pkg/errors"
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	disallowedPattern = regexp.MustCompile(`[^\w\s.,!?;]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize standardizes raw transcript text before any rule-based analysis.
//
// Steps, in order: Unicode compatibility decomposition, removal of non-ASCII
// code points, removal of http(s)/www URL tokens, removal of characters
// outside word characters, whitespace and basic punctuation, whitespace
// collapsing, trimming, and lowercasing.
//
// Normalize is deterministic and idempotent: Normalize(Normalize(s)) equals
// Normalize(s). It returns ErrInvalidInput when the input is not valid UTF-8
// text.
func Normalize(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", errors.NewInvalidInput("transcript is not valid UTF-8 text")
	}

	// Compatibility-decompose so accented letters split into base letter +
	// combining mark, then drop everything outside ASCII.
	decomposed := norm.NFKD.String(text)
	var ascii strings.Builder
	ascii.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			ascii.WriteRune(r)
		}
	}

	cleaned := urlPattern.ReplaceAllString(ascii.String(), "")
	cleaned = disallowedPattern.ReplaceAllString(cleaned, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	return strings.ToLower(cleaned), nil
}
