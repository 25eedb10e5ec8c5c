package analytics

import "strings"

// CheckCompliance evaluates every required-phrase category against the
// transcript. A category is compliant when at least one of its configured
// phrases occurs as a case-insensitive substring of the text. The returned
// map contains an entry for every configured category.
func CheckCompliance(text string, required map[string][]string) map[string]bool {
	lowered := strings.ToLower(text)

	result := make(map[string]bool, len(required))
	for category, phrases := range required {
		found := false
		for _, phrase := range phrases {
			if strings.Contains(lowered, strings.ToLower(phrase)) {
				found = true
				break
			}
		}
		result[category] = found
	}
	return result
}

// ExtractTimestamps tokenizes the transcript once and, for every category
// marked compliant, records all non-overlapping occurrences of that
// category's phrases as token spans.
//
// Matching is exact phrase-as-token-subsequence, case-insensitive. Within a
// category the scan proceeds left to right; at each token position the
// category's phrases are tried in configured order and the first match wins,
// with the scan resuming after the matched span. Categories that are not
// compliant are omitted from the result entirely, so a non-compliant
// category can never report a spurious occurrence list.
func ExtractTimestamps(text string, required map[string][]string, compliant map[string]bool) map[string][]PhraseOccurrence {
	tokens := tokenize(text)
	found := make(map[string][]PhraseOccurrence)

	for category, phrases := range required {
		if !compliant[category] {
			continue
		}

		phraseTokens := make([][]string, 0, len(phrases))
		for _, phrase := range phrases {
			if pt := tokenize(phrase); len(pt) > 0 {
				phraseTokens = append(phraseTokens, pt)
			}
		}

		for i := 0; i < len(tokens); {
			matched := 0
			for _, pt := range phraseTokens {
				if matchesAt(tokens, i, pt) {
					found[category] = append(found[category], PhraseOccurrence{
						Phrase:     strings.Join(pt, " "),
						TokenStart: i,
						TokenEnd:   i + len(pt),
					})
					matched = len(pt)
					break
				}
			}
			if matched > 0 {
				i += matched
			} else {
				i++
			}
		}
	}

	return found
}

// matchesAt reports whether the phrase tokens appear at position i.
func matchesAt(tokens []string, i int, phrase []string) bool {
	if i+len(phrase) > len(tokens) {
		return false
	}
	for j, pt := range phrase {
		if tokens[i+j] != pt {
			return false
		}
	}
	return true
}
