package sentiment

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sentiment is the analysis result for one piece of text.
type Sentiment struct {
	// Label is positive, negative or neutral.
	Label string `json:"label"`

	// Score is the normalized polarity in [0, 1]; 0.5 is neutral.
	Score float64 `json:"score"`

	// Magnitude is the intensity of the sentiment in [0, 1].
	Magnitude float64 `json:"magnitude"`

	// Subjectivity is the fraction of opinionated words in [0, 1].
	Subjectivity float64 `json:"subjectivity"`
}

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Analyzer performs lexicon-based sentiment analysis over call transcripts.
// The lexicons are fixed at construction, so a single Analyzer is safe for
// concurrent use.
type Analyzer struct {
	logger *logrus.Entry

	positiveWords map[string]float64
	negativeWords map[string]float64
	intensifiers  map[string]float64
	negators      map[string]float64

	punctuationRules map[string]float64

	minTextLength int
}

// NewAnalyzer creates a sentiment analyzer with the built-in English lexicons.
func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	a := &Analyzer{
		logger:        logger.WithField("component", "sentiment_analyzer"),
		minTextLength: 3,
	}
	a.initializeLexicons()
	return a
}

// AnalyzeText analyzes the sentiment of the given text.
func (a *Analyzer) AnalyzeText(text string) Sentiment {
	if len(text) < a.minTextLength {
		return Sentiment{Label: LabelNeutral, Score: 0.5, Magnitude: 0.0, Subjectivity: 0.5}
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return Sentiment{Label: LabelNeutral, Score: 0.5, Magnitude: 0.0, Subjectivity: 0.5}
	}

	lexiconScore := a.calculateLexiconScore(words)
	punctuationScore := a.calculatePunctuationScore(text)

	combinedScore := lexiconScore*0.9 + punctuationScore*0.1

	magnitude := a.calculateMagnitude(words, combinedScore)
	subjectivity := a.calculateSubjectivity(words)
	label, normalizedScore := normalizeScore(combinedScore)

	return Sentiment{
		Label:        label,
		Score:        normalizedScore,
		Magnitude:    magnitude,
		Subjectivity: subjectivity,
	}
}

// calculateLexiconScore scores words against the sentiment lexicons. Negators
// and intensifiers modify the words that follow them; the modifier resets
// every few words or at sentence punctuation.
func (a *Analyzer) calculateLexiconScore(words []string) float64 {
	score := 0.0
	wordCount := 0
	modifier := 1.0

	for i, word := range words {
		trimmed := strings.Trim(word, ".,!?;")

		if negValue, isNegator := a.negators[trimmed]; isNegator {
			modifier = negValue
			continue
		}

		if intValue, isIntensifier := a.intensifiers[trimmed]; isIntensifier {
			modifier *= intValue
			continue
		}

		if posValue, isPositive := a.positiveWords[trimmed]; isPositive {
			score += posValue * modifier
			wordCount++
		} else if negValue, isNegative := a.negativeWords[trimmed]; isNegative {
			score += negValue * modifier
			wordCount++
		}

		if i > 0 && (i%3 == 0 || strings.ContainsAny(word, ".!?")) {
			modifier = 1.0
		}
	}

	if wordCount > 0 {
		return score / float64(wordCount)
	}
	return 0.0
}

// calculatePunctuationScore scores exclamation and ellipsis usage.
func (a *Analyzer) calculatePunctuationScore(text string) float64 {
	score := 0.0
	for punct, value := range a.punctuationRules {
		score += float64(strings.Count(text, punct)) * value
	}
	return score
}

// calculateMagnitude derives intensity from the score and strong lexicon hits.
func (a *Analyzer) calculateMagnitude(words []string, score float64) float64 {
	magnitude := math.Abs(score)

	for _, word := range words {
		trimmed := strings.Trim(word, ".,!?;")

		if intValue, exists := a.intensifiers[trimmed]; exists {
			magnitude += math.Abs(intValue - 1.0)
		}
		if posValue, exists := a.positiveWords[trimmed]; exists && posValue > 0.7 {
			magnitude += 0.2
		}
		if negValue, exists := a.negativeWords[trimmed]; exists && negValue < -0.7 {
			magnitude += 0.2
		}
	}

	if magnitude > 1.0 {
		magnitude = 1.0
	}
	return magnitude
}

// calculateSubjectivity is the share of words carrying opinion.
func (a *Analyzer) calculateSubjectivity(words []string) float64 {
	if len(words) == 0 {
		return 0.5
	}

	subjectiveCount := 0
	for _, word := range words {
		trimmed := strings.Trim(word, ".,!?;")
		if _, exists := a.positiveWords[trimmed]; exists {
			subjectiveCount++
		} else if _, exists := a.negativeWords[trimmed]; exists {
			subjectiveCount++
		} else if subjectiveIndicators[trimmed] {
			subjectiveCount++
		}
	}

	return float64(subjectiveCount) / float64(len(words))
}

var subjectiveIndicators = map[string]bool{
	"think": true, "feel": true, "believe": true, "opinion": true,
	"seems": true, "appears": true, "probably": true, "maybe": true,
	"perhaps": true, "might": true, "could": true, "should": true,
}

// normalizeScore converts a raw [-1, 1] score to a label and [0, 1] score.
func normalizeScore(score float64) (string, float64) {
	normalized := (score + 1.0) / 2.0
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}

	switch {
	case normalized > 0.6:
		return LabelPositive, normalized
	case normalized < 0.4:
		return LabelNegative, normalized
	default:
		return LabelNeutral, normalized
	}
}

// initializeLexicons populates the sentiment word lexicons.
func (a *Analyzer) initializeLexicons() {
	a.positiveWords = map[string]float64{
		"good": 0.7, "great": 0.8, "excellent": 0.9, "amazing": 0.9, "wonderful": 0.8,
		"fantastic": 0.9, "awesome": 0.8, "perfect": 0.9, "outstanding": 0.9,
		"love": 0.8, "like": 0.6, "enjoy": 0.7, "happy": 0.8, "pleased": 0.7,
		"satisfied": 0.7, "delighted": 0.8, "thrilled": 0.9, "helpful": 0.7,
		"thanks": 0.6, "thank": 0.6, "appreciate": 0.7, "resolved": 0.7,
	}

	a.negativeWords = map[string]float64{
		"bad": -0.7, "terrible": -0.8, "awful": -0.9, "horrible": -0.9,
		"hate": -0.8, "angry": -0.8, "mad": -0.7, "furious": -0.9,
		"sad": -0.7, "disappointed": -0.7, "upset": -0.7, "frustrated": -0.7,
		"useless": -0.8, "broken": -0.6, "failure": -0.8, "wrong": -0.6,
		"problem": -0.6, "issue": -0.5, "complaint": -0.6, "unacceptable": -0.8,
	}

	a.intensifiers = map[string]float64{
		"very": 1.3, "extremely": 1.5, "really": 1.2, "quite": 1.1,
		"absolutely": 1.4, "completely": 1.4, "totally": 1.4, "incredibly": 1.5,
	}

	a.negators = map[string]float64{
		"not": -1.0, "never": -1.0, "no": -1.0, "nothing": -1.0,
		"without": -0.8, "barely": -0.7, "hardly": -0.7,
	}

	a.punctuationRules = map[string]float64{
		"!":   0.3,
		"?":   0.1,
		"...": -0.1,
	}
}
