package diarize

import (
	"context"
	"io"

	"call-analytics-server/pkg/analytics"
)

// Provider defines the interface for speaker diarization providers.
type Provider interface {
	// Initialize initializes the provider with any required configuration
	Initialize() error

	// Name returns the provider name
	Name() string

	// Diarize consumes the audio stream and returns speaker turns ordered by
	// start time.
	Diarize(ctx context.Context, audioStream io.Reader, callUUID string) ([]analytics.SpeakerTurn, error)
}
