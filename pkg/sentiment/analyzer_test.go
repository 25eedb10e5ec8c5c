package sentiment

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestAnalyzer() *Analyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewAnalyzer(logger)
}

func TestAnalyzeTextLabels(t *testing.T) {
	analyzer := newTestAnalyzer()

	testCases := []struct {
		name  string
		input string
		label string
	}{
		{"positive word", "the service was great", LabelPositive},
		{"negative word", "this is terrible", LabelNegative},
		{"no sentiment words", "the package arrived on tuesday", LabelNeutral},
		{"negated positive", "not good", LabelNegative},
		{"intensified positive", "really great support", LabelPositive},
		{"below minimum length", "ok", LabelNeutral},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := analyzer.AnalyzeText(tc.input)
			assert.Equal(t, tc.label, result.Label)
		})
	}
}

func TestAnalyzeTextScores(t *testing.T) {
	analyzer := newTestAnalyzer()

	positive := analyzer.AnalyzeText("excellent")
	assert.Greater(t, positive.Score, 0.6)

	negative := analyzer.AnalyzeText("awful")
	assert.Less(t, negative.Score, 0.4)

	neutral := analyzer.AnalyzeText("the call lasted ten minutes")
	assert.InDelta(t, 0.5, neutral.Score, 0.01)
	assert.Equal(t, 0.0, neutral.Magnitude)
}

func TestAnalyzeTextMagnitude(t *testing.T) {
	analyzer := newTestAnalyzer()

	mild := analyzer.AnalyzeText("the service was like expected")
	intense := analyzer.AnalyzeText("absolutely thrilled, this is amazing!")

	assert.Greater(t, intense.Magnitude, mild.Magnitude)
	assert.LessOrEqual(t, intense.Magnitude, 1.0)
}

func TestAnalyzeTextSubjectivity(t *testing.T) {
	analyzer := newTestAnalyzer()

	objective := analyzer.AnalyzeText("the order number is five five five")
	assert.Equal(t, 0.0, objective.Subjectivity)

	// think and great are 2 of 5 words.
	opinionated := analyzer.AnalyzeText("i think this is great")
	assert.InDelta(t, 0.4, opinionated.Subjectivity, 0.01)
}

func TestAnalyzeTextDeterministic(t *testing.T) {
	analyzer := newTestAnalyzer()

	first := analyzer.AnalyzeText("really happy with the resolution")
	second := analyzer.AnalyzeText("really happy with the resolution")
	assert.Equal(t, first, second)
}
