package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	categorizer := NewCategorizer()

	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "billing keywords",
			input:    "i was overcharged on my last bill",
			expected: []string{"Billing Issue"},
		},
		{
			name:     "multiple categories sorted alphabetically",
			input:    "i want a refund because the password reset is not working",
			expected: []string{"Account Support", "Billing Issue", "Technical Support"},
		},
		{
			name:     "multi-word trigger phrase",
			input:    "you sent me the wrong item",
			expected: []string{"Order Return"},
		},
		{
			name:     "whole word matching only",
			input:    "the billboard was fixed yesterday",
			expected: []string{UncategorizedLabel},
		},
		{
			name:     "no triggers",
			input:    "the weather is nice today",
			expected: []string{UncategorizedLabel},
		},
		{
			name:     "blank input",
			input:    "   ",
			expected: []string{UncategorizedLabel},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{UncategorizedLabel},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := categorizer.Categorize(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.NotEmpty(t, got, "Categorize must never return an empty list")
		})
	}
}
