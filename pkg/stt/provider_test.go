package stt

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-analytics-server/pkg/errors"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestMockProviderTranscribe(t *testing.T) {
	provider := NewMockProvider(testLogger())
	require.NoError(t, provider.Initialize())
	assert.Equal(t, "mock", provider.Name())

	audio := bytes.Repeat([]byte{0x01}, 32000) // two seconds at the mock byte rate

	result, err := provider.Transcribe(context.Background(), bytes.NewReader(audio), "call-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Transcript)
	assert.Equal(t, 2.0, result.DurationSeconds)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestMockProviderDeterministic(t *testing.T) {
	provider := NewMockProvider(testLogger())

	audio := bytes.Repeat([]byte{0x02}, 8000)

	first, err := provider.Transcribe(context.Background(), bytes.NewReader(audio), "call-1")
	require.NoError(t, err)
	second, err := provider.Transcribe(context.Background(), bytes.NewReader(audio), "call-2")
	require.NoError(t, err)

	assert.Equal(t, first.Transcript, second.Transcript)
	assert.Equal(t, first.DurationSeconds, second.DurationSeconds)
}

func TestMockProviderFixedTranscript(t *testing.T) {
	provider := NewMockProvider(testLogger())
	provider.FixedTranscript = "hello from the test"

	result, err := provider.Transcribe(context.Background(), bytes.NewReader([]byte{0x01}), "call-1")
	require.NoError(t, err)
	assert.Equal(t, "hello from the test", result.Transcript)
}

func TestMockProviderCancelledContext(t *testing.T) {
	provider := NewMockProvider(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Transcribe(ctx, bytes.NewReader(bytes.Repeat([]byte{0x01}, 100)), "call-1")
	require.Error(t, err)
}

func TestProviderManagerRoutesToNamedProvider(t *testing.T) {
	manager := NewProviderManager(testLogger(), "mock")
	require.NoError(t, manager.RegisterProvider(NewMockProvider(testLogger())))

	result, err := manager.Transcribe(context.Background(), "mock", bytes.NewReader([]byte{0x01}), "call-1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Transcript)
}

func TestProviderManagerFallsBackToDefault(t *testing.T) {
	manager := NewProviderManager(testLogger(), "mock")
	require.NoError(t, manager.RegisterProvider(NewMockProvider(testLogger())))

	result, err := manager.Transcribe(context.Background(), "unknown-vendor", bytes.NewReader([]byte{0x01}), "call-1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Transcript)
}

func TestProviderManagerNoProviderAvailable(t *testing.T) {
	manager := NewProviderManager(testLogger(), "mock")

	_, err := manager.Transcribe(context.Background(), "unknown-vendor", bytes.NewReader(nil), "call-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoProviderAvailable)
}
