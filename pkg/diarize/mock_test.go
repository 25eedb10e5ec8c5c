package diarize

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *MockProvider {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	provider := NewMockProvider(logger)
	require.NoError(t, provider.Initialize())
	return provider
}

func TestMockProviderDiarize(t *testing.T) {
	provider := newTestProvider(t)

	// Ten seconds of audio: turns at [0,4] agent, [4.5,8.5] caller, [9,10] agent.
	audio := bytes.Repeat([]byte{0x01}, 10*16000)

	turns, err := provider.Diarize(context.Background(), bytes.NewReader(audio), "call-1")
	require.NoError(t, err)
	require.Len(t, turns, 3)

	assert.Equal(t, "agent", turns[0].SpeakerID)
	assert.Equal(t, 0.0, turns[0].Start)
	assert.Equal(t, 4.0, turns[0].End)

	assert.Equal(t, "caller", turns[1].SpeakerID)
	assert.Equal(t, 4.5, turns[1].Start)
	assert.Equal(t, 8.5, turns[1].End)

	assert.Equal(t, "agent", turns[2].SpeakerID)
	assert.Equal(t, 10.0, turns[2].End)
}

func TestMockProviderDiarizeOrdered(t *testing.T) {
	provider := newTestProvider(t)

	audio := bytes.Repeat([]byte{0x01}, 30*16000)

	turns, err := provider.Diarize(context.Background(), bytes.NewReader(audio), "call-1")
	require.NoError(t, err)
	require.NotEmpty(t, turns)

	for i := 1; i < len(turns); i++ {
		assert.GreaterOrEqual(t, turns[i].Start, turns[i-1].End)
		assert.NotEqual(t, turns[i].SpeakerID, turns[i-1].SpeakerID)
	}
}

func TestMockProviderDiarizeEmptyAudio(t *testing.T) {
	provider := newTestProvider(t)

	turns, err := provider.Diarize(context.Background(), bytes.NewReader(nil), "call-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMockProviderCancelledContext(t *testing.T) {
	provider := newTestProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Diarize(ctx, bytes.NewReader(bytes.Repeat([]byte{0x01}, 100)), "call-1")
	require.Error(t, err)
}
