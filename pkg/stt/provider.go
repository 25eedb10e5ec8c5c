package stt

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/errors"
	"call-analytics-server/pkg/metrics"
)

// Result is the outcome of transcribing one audio stream.
type Result struct {
	// Transcript is the full transcribed text.
	Transcript string `json:"transcript"`

	// DurationSeconds is the audio duration as reported by the provider.
	DurationSeconds float64 `json:"duration_seconds"`

	// Confidence is the provider's overall confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Initialize initializes the provider with any required configuration
	Initialize() error

	// Name returns the provider name
	Name() string

	// Transcribe consumes the audio stream and returns the transcription
	Transcribe(ctx context.Context, audioStream io.Reader, callUUID string) (*Result, error)
}

// ProviderManager manages all speech-to-text providers
type ProviderManager struct {
	logger          *logrus.Logger
	providers       map[string]Provider
	defaultProvider string
}

// NewProviderManager creates a new provider manager
func NewProviderManager(logger *logrus.Logger, defaultProvider string) *ProviderManager {
	return &ProviderManager{
		logger:          logger,
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers a speech-to-text provider
func (m *ProviderManager) RegisterProvider(provider Provider) error {
	if err := provider.Initialize(); err != nil {
		m.logger.WithFields(logrus.Fields{
			"provider": provider.Name(),
			"error":    err,
		}).Error("Failed to initialize speech-to-text provider")
		return err
	}

	m.providers[provider.Name()] = provider
	m.logger.WithField("provider", provider.Name()).Info("Registered speech-to-text provider")

	return nil
}

// GetProvider returns a provider by name
func (m *ProviderManager) GetProvider(name string) (Provider, bool) {
	provider, exists := m.providers[name]
	return provider, exists
}

// GetDefaultProvider returns the default provider
func (m *ProviderManager) GetDefaultProvider() (Provider, bool) {
	return m.GetProvider(m.defaultProvider)
}

// Transcribe routes the audio stream to the named provider, falling back to
// the default provider when the name is unknown.
func (m *ProviderManager) Transcribe(ctx context.Context, providerName string, audioStream io.Reader, callUUID string) (*Result, error) {
	startTime := time.Now()

	m.logger.WithFields(logrus.Fields{
		"call_uuid": callUUID,
		"provider":  providerName,
	}).Info("Starting transcription")

	provider, exists := m.GetProvider(providerName)
	if !exists {
		m.logger.WithFields(logrus.Fields{
			"call_uuid":        callUUID,
			"provider":         providerName,
			"default_provider": m.defaultProvider,
		}).Warn("Provider not found, falling back to default")

		provider, exists = m.GetDefaultProvider()
		if !exists {
			return nil, errors.ErrNoProviderAvailable
		}
	}

	result, err := provider.Transcribe(ctx, audioStream, callUUID)

	elapsed := time.Since(startTime)
	status := "success"
	if err != nil {
		status = "error"
	}
	if metrics.STTRequestsTotal != nil {
		metrics.STTRequestsTotal.WithLabelValues(provider.Name(), status).Inc()
	}
	if metrics.STTLatency != nil {
		metrics.STTLatency.WithLabelValues(provider.Name()).Observe(elapsed.Seconds())
	}

	m.logger.WithFields(logrus.Fields{
		"call_uuid":   callUUID,
		"provider":    provider.Name(),
		"duration_ms": elapsed.Milliseconds(),
		"error":       err != nil,
	}).Info("Transcription completed")

	if err != nil {
		return nil, errors.Wrap(err, "transcription failed")
	}
	return result, nil
}
