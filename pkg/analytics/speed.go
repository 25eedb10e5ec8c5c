package analytics

import (
	"math"
	"strings"

	"call-analytics-server/pkg/errors"
)

// Speaking speed thresholds in words per minute.
const (
	slowWPMThreshold    = 125.0
	optimalWPMThreshold = 175.0
)

// EvaluateSpeakingSpeed computes words per minute from the transcript word
// count and the externally supplied call duration, and classifies the result:
// below 125 WPM is too slow, 125-175 is optimal, above 175 is too fast.
//
// Callers must supply a positive duration; a duration of zero or less
// returns ErrInvalidDuration.
func EvaluateSpeakingSpeed(transcript string, durationSeconds float64) (SpeakingSpeed, error) {
	if durationSeconds <= 0 {
		return SpeakingSpeed{}, errors.NewInvalidDuration("speaking speed requires a positive call duration",
			map[string]interface{}{"duration_seconds": durationSeconds})
	}

	wordCount := len(strings.Fields(transcript))
	wpm := round2(float64(wordCount) / durationSeconds * 60)

	label := SpeedOptimal
	switch {
	case wpm < slowWPMThreshold:
		label = SpeedTooSlow
	case wpm > optimalWPMThreshold:
		label = SpeedTooFast
	}

	return SpeakingSpeed{WPM: wpm, Label: label}, nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
