package analytics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// PIIType identifies one entity type in the fixed PII catalog.
type PIIType string

const (
	PIITypePhoneNumber PIIType = "PHONE_NUMBER"
	PIITypeSSN         PIIType = "SSN"
	PIITypeEmail       PIIType = "EMAIL"
	PIITypeCreditCard  PIIType = "CREDIT_CARD"
	PIITypePIN         PIIType = "PIN"
	PIITypeIPAddress   PIIType = "IP_ADDRESS"
	PIITypeDateOfBirth PIIType = "DATE_OF_BIRTH"
)

// piiCatalogOrder is the declared evaluation order for both detection and
// masking. Earlier entries claim overlapping text first; the one exception
// is the PIN rule, which additionally refuses digit runs that fall inside a
// date-of-birth shape so a DOB is never half-masked as a PIN.
var piiCatalogOrder = []PIIType{
	PIITypePhoneNumber,
	PIITypeSSN,
	PIITypeEmail,
	PIITypeCreditCard,
	PIITypePIN,
	PIITypeIPAddress,
	PIITypeDateOfBirth,
}

// Fixed-shape redaction tokens. Email and PIN use shape-preserving rules
// implemented in maskMatch instead.
var piiMaskTokens = map[PIIType]string{
	PIITypePhoneNumber: "****-****-****-****",
	PIITypeSSN:         "***-**-****",
	PIITypeCreditCard:  "****-****-****-****",
	PIITypeIPAddress:   "***.***.***.***",
	PIITypeDateOfBirth: "**/**/****",
}

// PIIScanner detects and masks personally identifiable information using a
// fixed catalog of pattern rules. It is read-only after construction and
// safe for concurrent use.
type PIIScanner struct {
	logger   *logrus.Entry
	patterns map[PIIType]*regexp.Regexp
}

// NewPIIScanner compiles the PII pattern catalog.
func NewPIIScanner(logger *logrus.Logger) *PIIScanner {
	return &PIIScanner{
		logger: logger.WithField("component", "pii_scanner"),
		patterns: map[PIIType]*regexp.Regexp{
			PIITypePhoneNumber: regexp.MustCompile(`\b(?:\+?\d{1,2}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
			PIITypeSSN:         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			PIITypeEmail:       regexp.MustCompile(`\b([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`),
			PIITypeCreditCard:  regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			PIITypePIN:         regexp.MustCompile(`\b\d{4,6}\b`),
			PIITypeIPAddress:   regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			PIITypeDateOfBirth: regexp.MustCompile(`\b\d{2}[-/]\d{2}[-/]\d{4}\b`),
		},
	}
}

// piiMatch is one claimed span of text attributed to a single entity type.
type piiMatch struct {
	entity PIIType
	start  int
	end    int
}

// findMatches resolves the catalog against text and returns the claimed,
// non-overlapping matches sorted by position. Detection and masking share
// this single resolution pass, so they always agree on which entity type
// owns a given span of text.
func (s *PIIScanner) findMatches(text string) []piiMatch {
	var claimed []piiMatch

	overlapsClaimed := func(start, end int) bool {
		for _, m := range claimed {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}

	// DOB spans computed up front: the PIN pattern is a bare 4-6 digit run
	// and Go's RE2 engine has no lookarounds, so date protection is enforced
	// by rejecting PIN candidates inside any date-of-birth shape.
	dobSpans := s.patterns[PIITypeDateOfBirth].FindAllStringIndex(text, -1)
	insideDOB := func(start, end int) bool {
		for _, span := range dobSpans {
			if start < span[1] && end > span[0] {
				return true
			}
		}
		return false
	}

	for _, entity := range piiCatalogOrder {
		for _, loc := range s.patterns[entity].FindAllStringIndex(text, -1) {
			if entity == PIITypePIN && insideDOB(loc[0], loc[1]) {
				continue
			}
			if overlapsClaimed(loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, piiMatch{entity: entity, start: loc[0], end: loc[1]})
		}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })
	return claimed
}

// Scan returns the entity types detected in text, in catalog order.
func (s *PIIScanner) Scan(text string) []PIIType {
	found := make(map[PIIType]bool)
	for _, m := range s.findMatches(text) {
		found[m.entity] = true
	}

	detected := make([]PIIType, 0, len(found))
	for _, entity := range piiCatalogOrder {
		if found[entity] {
			detected = append(detected, entity)
		}
	}

	if len(detected) > 0 {
		s.logger.WithFields(logrus.Fields{
			"entities":    detected,
			"text_length": len(text),
		}).Debug("PII detected")
	}
	return detected
}

// Mask returns text with every claimed PII match redacted according to its
// entity's masking rule. Text outside the matches is preserved byte for byte.
func (s *PIIScanner) Mask(text string) string {
	matches := s.findMatches(text)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range matches {
		out.WriteString(text[last:m.start])
		out.WriteString(s.maskMatch(m.entity, text[m.start:m.end]))
		last = m.end
	}
	out.WriteString(text[last:])
	return out.String()
}

// maskMatch applies the per-entity substitution rule to one matched span.
func (s *PIIScanner) maskMatch(entity PIIType, matched string) string {
	if token, ok := piiMaskTokens[entity]; ok {
		return token
	}

	switch entity {
	case PIITypeEmail:
		// Keep the first character of the local part and the full domain.
		groups := s.patterns[PIITypeEmail].FindStringSubmatch(matched)
		if len(groups) == 3 && groups[1] != "" {
			return groups[1][:1] + "****@" + groups[2]
		}
	case PIITypePIN:
		return strings.Repeat("*", len(matched))
	}

	// Unrecognized matches pass through unchanged.
	return matched
}
