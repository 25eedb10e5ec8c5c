package analytics

import (
	"regexp"
	"sort"
	"strings"
)

// UncategorizedLabel is returned when no taxonomy category triggers, or the
// transcript is blank.
const UncategorizedLabel = "Uncategorized"

// callTaxonomy is the fixed category taxonomy: category name to trigger
// keywords and phrases.
var callTaxonomy = map[string][]string{
	"Billing Issue":     {"bill", "charge", "payment", "refund", "overcharged"},
	"Order Return":      {"return", "exchange", "replace", "wrong item"},
	"Technical Support": {"error", "not working", "issue", "troubleshoot", "fix"},
	"Account Support":   {"login", "password", "account locked", "reset"},
	"General Inquiry":   {"information", "details", "help", "assist"},
}

// Categorizer tags transcripts with call topic categories using whole-word
// keyword matching against the fixed taxonomy. Patterns are compiled once;
// the Categorizer is read-only afterwards and safe for concurrent use.
type Categorizer struct {
	triggers map[string][]*regexp.Regexp
}

// NewCategorizer compiles the taxonomy trigger patterns.
func NewCategorizer() *Categorizer {
	triggers := make(map[string][]*regexp.Regexp, len(callTaxonomy))
	for category, keywords := range callTaxonomy {
		patterns := make([]*regexp.Regexp, 0, len(keywords))
		for _, kw := range keywords {
			patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		triggers[category] = patterns
	}
	return &Categorizer{triggers: triggers}
}

// Categorize returns the alphabetically sorted category tags whose trigger
// keywords occur in the transcript. Categories are not mutually exclusive.
// A blank transcript, or one matching no category, yields the singleton
// [UncategorizedLabel] so the result is never empty.
func (c *Categorizer) Categorize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{UncategorizedLabel}
	}

	var detected []string
	for category, patterns := range c.triggers {
		for _, p := range patterns {
			if p.MatchString(text) {
				detected = append(detected, category)
				break
			}
		}
	}

	if len(detected) == 0 {
		return []string{UncategorizedLabel}
	}
	sort.Strings(detected)
	return detected
}
