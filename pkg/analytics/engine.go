package analytics

import (
	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/errors"
	"call-analytics-server/pkg/rules"
)

// Engine runs the full call-analytics pipeline over one input: normalize,
// prohibited-language scan/mask, PII scan/mask, compliance check, phrase
// timestamp extraction, categorization, speaking-speed evaluation, and
// interaction analysis.
//
// An Engine holds only read-only state (the rule set and compiled patterns),
// so a single instance is safe for any number of concurrent Analyze calls.
type Engine struct {
	logger      *logrus.Entry
	ruleSet     *rules.RuleSet
	pii         *PIIScanner
	categorizer *Categorizer
}

// NewEngine creates an analytics engine bound to the given rule set.
func NewEngine(logger *logrus.Logger, ruleSet *rules.RuleSet) (*Engine, error) {
	if ruleSet == nil {
		return nil, errors.NewInvalidRuleSet("analytics engine requires a rule set")
	}

	return &Engine{
		logger:      logger.WithField("component", "analytics_engine"),
		ruleSet:     ruleSet,
		pii:         NewPIIScanner(logger),
		categorizer: NewCategorizer(),
	}, nil
}

// PIIScanner exposes the engine's PII scanner for direct reuse.
func (e *Engine) PIIScanner() *PIIScanner {
	return e.pii
}

// Categorizer exposes the engine's categorizer for direct reuse.
func (e *Engine) Categorizer() *Categorizer {
	return e.categorizer
}

// Analyze runs the pipeline and aggregates all component outputs into a
// single Record.
//
// When normalization yields empty text the run short-circuits with
// ErrEmptyTranscript before any other component is invoked; an upstream
// transcription failure therefore never produces a partial record. Any
// component failure aborts the run the same way: a failed run yields no
// Record at all.
func (e *Engine) Analyze(input Input) (*Record, error) {
	normalized, err := Normalize(input.Transcript)
	if err != nil {
		return nil, err
	}
	if normalized == "" {
		e.logger.Warn("Normalization produced empty text, treating as transcription failure")
		return nil, errors.NewEmptyTranscript("transcription failed")
	}

	// Masking is composed: prohibited-language redaction first, then PII
	// redaction on top, so the final masked transcript reflects both.
	// Detection always runs against the unmasked normalized text.
	prohibitedDetected := ScanProhibited(normalized, e.ruleSet.Prohibited)
	masked := normalized
	if prohibitedDetected {
		masked = MaskProhibited(normalized, e.ruleSet.Prohibited)
	}

	detectedPII := e.pii.Scan(normalized)
	masked = e.pii.Mask(masked)

	compliance := CheckCompliance(normalized, e.ruleSet.Required)
	occurrences := ExtractTimestamps(normalized, e.ruleSet.Required, compliance)

	categories := e.categorizer.Categorize(normalized)

	speed, err := EvaluateSpeakingSpeed(normalized, input.DurationSeconds)
	if err != nil {
		return nil, err
	}

	interaction := AnalyzeInteraction(input.Turns)

	e.logger.WithFields(logrus.Fields{
		"pii_entities":        len(detectedPII),
		"prohibited_detected": prohibitedDetected,
		"categories":          categories,
		"wpm":                 speed.WPM,
	}).Debug("Analytics pipeline completed")

	return &Record{
		Transcript:         normalized,
		MaskedTranscript:   masked,
		DetectedPII:        detectedPII,
		ProhibitedDetected: prohibitedDetected,
		Compliance:         compliance,
		PhraseOccurrences:  occurrences,
		Categories:         categories,
		SpeakingSpeed:      speed,
		Interaction:        interaction,
		DurationSeconds:    input.DurationSeconds,
	}, nil
}
