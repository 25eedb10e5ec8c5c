package stt

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// mockSampleRateBytes is the byte rate the mock assumes for duration
// estimation (16-bit mono PCM at 8kHz).
const mockSampleRateBytes = 16000

// MockProvider implements a deterministic speech-to-text provider. It stands
// in for a real vendor in tests and in deployments that feed pre-transcribed
// audio through the analysis pipeline.
type MockProvider struct {
	logger *logrus.Logger

	// FixedTranscript, when set, is returned for every stream.
	FixedTranscript string
}

// NewMockProvider creates a new mock provider
func NewMockProvider(logger *logrus.Logger) *MockProvider {
	return &MockProvider{
		logger: logger,
	}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Initialize initializes the mock provider
func (p *MockProvider) Initialize() error {
	p.logger.Info("Mock STT provider initialized")
	return nil
}

var mockTranscriptions = []string{
	"Thank you for calling, how can I help you today?",
	"I was charged twice on my last bill and would like a refund.",
	"The app keeps crashing whenever I try to log in.",
	"I need to return an item that arrived damaged.",
	"Can you help me reset my password? My account is locked.",
}

// Transcribe consumes the audio stream and returns a deterministic
// transcription. The audio length alone decides the transcript chosen and
// the reported duration, so identical inputs always give identical results.
func (p *MockProvider) Transcribe(ctx context.Context, audioStream io.Reader, callUUID string) (*Result, error) {
	p.logger.WithField("call_uuid", callUUID).Info("Mock STT provider processing audio stream")

	var total int64
	buffer := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := audioStream.Read(buffer)
		total += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	transcript := p.FixedTranscript
	if transcript == "" {
		transcript = mockTranscriptions[total%int64(len(mockTranscriptions))]
	}

	result := &Result{
		Transcript:      transcript,
		DurationSeconds: float64(total) / mockSampleRateBytes,
		Confidence:      0.95,
	}

	p.logger.WithFields(logrus.Fields{
		"call_uuid":   callUUID,
		"audio_bytes": total,
		"duration_s":  result.DurationSeconds,
	}).Debug("Mock transcription generated")

	return result, nil
}
