package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompliance(t *testing.T) {
	required := map[string][]string{
		"Account Support": {"reset", "locked"},
		"Greeting":        {"thank you for calling"},
		"Disclaimer":      {"this call may be recorded"},
	}

	text := "your account is locked, please reset your password"

	result := CheckCompliance(text, required)

	assert.Equal(t, map[string]bool{
		"Account Support": true,
		"Greeting":        false,
		"Disclaimer":      false,
	}, result)
}

func TestCheckComplianceCaseInsensitive(t *testing.T) {
	required := map[string][]string{
		"Greeting": {"Thank You For Calling"},
	}

	result := CheckCompliance("well, thank you for calling acme", required)
	assert.True(t, result["Greeting"])
}

func TestExtractTimestamps(t *testing.T) {
	required := map[string][]string{
		"Account Support": {"reset", "locked"},
		"Greeting":        {"thank you for calling"},
	}

	text := "your account is locked, please reset your password"
	compliant := CheckCompliance(text, required)

	found := ExtractTimestamps(text, required, compliant)

	// Tokens: your(0) account(1) is(2) locked(3) please(4) reset(5) your(6) password(7)
	require.Contains(t, found, "Account Support")
	assert.Equal(t, []PhraseOccurrence{
		{Phrase: "locked", TokenStart: 3, TokenEnd: 4},
		{Phrase: "reset", TokenStart: 5, TokenEnd: 6},
	}, found["Account Support"])

	// Non-compliant categories never appear in the timestamp map.
	assert.NotContains(t, found, "Greeting")
}

func TestExtractTimestampsMultiWordPhrase(t *testing.T) {
	required := map[string][]string{
		"Greeting": {"thank you for calling"},
	}

	text := "hi, thank you for calling acme. again, thank you for calling."
	compliant := CheckCompliance(text, required)

	found := ExtractTimestamps(text, required, compliant)

	// Tokens: hi(0) thank(1) you(2) for(3) calling(4) acme(5) again(6) thank(7) you(8) for(9) calling(10)
	assert.Equal(t, []PhraseOccurrence{
		{Phrase: "thank you for calling", TokenStart: 1, TokenEnd: 5},
		{Phrase: "thank you for calling", TokenStart: 7, TokenEnd: 11},
	}, found["Greeting"])
}

func TestExtractTimestampsNonOverlapping(t *testing.T) {
	required := map[string][]string{
		"Echo": {"yes yes"},
	}

	text := "yes yes yes"
	compliant := map[string]bool{"Echo": true}

	found := ExtractTimestamps(text, required, compliant)

	// The scan resumes after a match, so "yes yes yes" yields one occurrence.
	assert.Equal(t, []PhraseOccurrence{
		{Phrase: "yes yes", TokenStart: 0, TokenEnd: 2},
	}, found["Echo"])
}

func TestExtractTimestampsOmitsUnlistedCategories(t *testing.T) {
	required := map[string][]string{
		"Greeting": {"hello"},
	}

	// Category absent from the compliance map behaves like non-compliant.
	found := ExtractTimestamps("hello there", required, map[string]bool{})
	assert.Empty(t, found)
}
