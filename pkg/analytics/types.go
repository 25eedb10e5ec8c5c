package analytics

// SpeakerTurn represents one contiguous interval during which a single
// diarized speaker is talking. Turns are supplied by the diarization
// collaborator already ordered by start time; the analyzer never re-sorts
// them because interruption and response-time logic compares adjacent turns.
type SpeakerTurn struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speaker_id"`
}

// Duration returns the talk time of the turn in seconds.
func (t SpeakerTurn) Duration() float64 {
	return t.End - t.Start
}

// PhraseOccurrence records one matched required phrase as a token span in
// the normalized transcript. Token offsets are zero-based and the end offset
// is exclusive, so the phrase covers tokens [TokenStart, TokenEnd).
type PhraseOccurrence struct {
	Phrase     string `json:"phrase"`
	TokenStart int    `json:"token_start"`
	TokenEnd   int    `json:"token_end"`
}

// SpeedLabel classifies the agent's speaking speed against WPM thresholds.
type SpeedLabel string

const (
	SpeedTooSlow SpeedLabel = "too_slow"
	SpeedOptimal SpeedLabel = "optimal"
	SpeedTooFast SpeedLabel = "too_fast"
)

// SpeakingSpeed holds the words-per-minute measurement and its evaluation.
type SpeakingSpeed struct {
	WPM   float64    `json:"wpm"`
	Label SpeedLabel `json:"label"`
}

// InteractionMetrics captures speaker-interaction measurements derived from
// the diarized turn sequence.
type InteractionMetrics struct {
	// SpeakingRatio is customer talk time over agent talk time.
	SpeakingRatio float64 `json:"speaking_ratio"`

	// Interruptions counts agent turns that begin before the preceding
	// customer turn has ended.
	Interruptions int `json:"interruptions"`

	// TTFT is the average time-to-first-response in seconds: the gap between
	// a customer turn ending and the agent's next turn beginning. Negative
	// averages are possible when the agent habitually overlaps the customer.
	TTFT float64 `json:"ttft"`
}

// Record is the aggregate output of one pipeline run. It is constructed
// fresh per input and never shared or mutated after Analyze returns.
type Record struct {
	// Transcript is the normalized transcript all rule-based components ran on.
	Transcript string `json:"transcript"`

	// MaskedTranscript has both prohibited-language and PII redactions applied.
	MaskedTranscript string `json:"masked_transcript"`

	// DetectedPII lists the PII entity types found, in catalog order.
	DetectedPII []PIIType `json:"detected_pii"`

	// ProhibitedDetected reports whether any configured prohibited word was found.
	ProhibitedDetected bool `json:"prohibited_detected"`

	// Compliance maps every configured category to whether it was satisfied.
	Compliance map[string]bool `json:"compliance"`

	// PhraseOccurrences holds phrase token spans for compliant categories only.
	// Non-compliant categories are absent from the map entirely.
	PhraseOccurrences map[string][]PhraseOccurrence `json:"phrase_occurrences"`

	// Categories are the matched taxonomy tags, alphabetically sorted.
	Categories []string `json:"categories"`

	SpeakingSpeed SpeakingSpeed      `json:"speaking_speed"`
	Interaction   InteractionMetrics `json:"interaction"`

	// DurationSeconds is the externally supplied call duration.
	DurationSeconds float64 `json:"duration_seconds"`
}

// Input bundles everything a single pipeline run consumes. Transcript is the
// raw text from the transcription collaborator; Turns and DurationSeconds
// come from diarization and media probing respectively.
type Input struct {
	Transcript      string        `json:"transcript"`
	Turns           []SpeakerTurn `json:"turns"`
	DurationSeconds float64       `json:"duration_seconds"`
}
