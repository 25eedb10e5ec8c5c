package diarize

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/analytics"
)

// mockSampleRateBytes matches the byte rate the mock STT provider assumes.
const mockSampleRateBytes = 16000

// MockProvider produces a deterministic two-speaker turn sequence from the
// audio length alone. The agent opens the call and speakers alternate in
// four-second turns with a half-second hand-off gap.
type MockProvider struct {
	logger *logrus.Logger
}

// NewMockProvider creates a new mock diarization provider
func NewMockProvider(logger *logrus.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Initialize initializes the mock provider
func (p *MockProvider) Initialize() error {
	p.logger.Info("Mock diarization provider initialized")
	return nil
}

// Diarize consumes the audio stream and synthesizes alternating speaker turns.
func (p *MockProvider) Diarize(ctx context.Context, audioStream io.Reader, callUUID string) ([]analytics.SpeakerTurn, error) {
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

	duration := float64(total) / mockSampleRateBytes

	const (
		turnLength = 4.0
		gapLength  = 0.5
	)
	speakers := []string{"agent", "caller"}

	var turns []analytics.SpeakerTurn
	start := 0.0
	for i := 0; start < duration; i++ {
		end := start + turnLength
		if end > duration {
			end = duration
		}
		turns = append(turns, analytics.SpeakerTurn{
			Start:     start,
			End:       end,
			SpeakerID: speakers[i%len(speakers)],
		})
		start = end + gapLength
	}

	p.logger.WithFields(logrus.Fields{
		"call_uuid":  callUUID,
		"duration_s": duration,
		"turns":      len(turns),
	}).Debug("Mock diarization generated")

	return turns, nil
}
