package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-analytics-server/pkg/errors"
)

func transcriptOfWords(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestEvaluateSpeakingSpeed(t *testing.T) {
	testCases := []struct {
		name          string
		words         int
		duration      float64
		expectedWPM   float64
		expectedLabel SpeedLabel
	}{
		{"optimal pace", 100, 40, 150.0, SpeedOptimal},
		{"too slow", 50, 60, 50.0, SpeedTooSlow},
		{"too fast", 200, 60, 200.0, SpeedTooFast},
		{"lower boundary is optimal", 125, 60, 125.0, SpeedOptimal},
		{"upper boundary is optimal", 175, 60, 175.0, SpeedOptimal},
		{"rounds to two decimals", 100, 45, 133.33, SpeedOptimal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			speed, err := EvaluateSpeakingSpeed(transcriptOfWords(tc.words), tc.duration)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedWPM, speed.WPM)
			assert.Equal(t, tc.expectedLabel, speed.Label)
		})
	}
}

func TestEvaluateSpeakingSpeedInvalidDuration(t *testing.T) {
	for _, duration := range []float64{0, -1, -0.5} {
		_, err := EvaluateSpeakingSpeed("some words here", duration)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidDuration)
	}
}
