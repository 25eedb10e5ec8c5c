package messaging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-analytics-server/pkg/analytics"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestMemoryPublisherStoresRecords(t *testing.T) {
	pub := NewMemoryPublisher(testLogger(), 10)

	record := &analytics.Record{Transcript: "hello there"}
	require.NoError(t, pub.PublishRecord("call-1", record, map[string]interface{}{"source": "test"}))

	records := pub.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "call-1", records[0].CallUUID)
	assert.Equal(t, record, records[0].Record)
	assert.Equal(t, "test", records[0].Metadata["source"])
	assert.False(t, records[0].Timestamp.IsZero())

	assert.True(t, pub.IsConnected())
}

func TestMemoryPublisherEvictsOldest(t *testing.T) {
	pub := NewMemoryPublisher(testLogger(), 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.PublishRecord(fmt.Sprintf("call-%d", i), &analytics.Record{}, nil))
	}

	records := pub.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "call-2", records[0].CallUUID)
	assert.Equal(t, "call-4", records[2].CallUUID)
	assert.Equal(t, 2, pub.Dropped())
}

func TestMemoryPublisherDrain(t *testing.T) {
	pub := NewMemoryPublisher(testLogger(), 10)

	require.NoError(t, pub.PublishRecord("call-1", &analytics.Record{}, nil))
	require.NoError(t, pub.PublishRecord("call-2", &analytics.Record{}, nil))

	drained := pub.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, pub.Records())
}

func TestMemoryPublisherConcurrentPublish(t *testing.T) {
	pub := NewMemoryPublisher(testLogger(), 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = pub.PublishRecord(fmt.Sprintf("call-%d-%d", n, j), &analytics.Record{}, nil)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, pub.Records(), 200)
}

func TestNewAMQPPublisherRequiresConfiguration(t *testing.T) {
	pub := NewAMQPPublisher(testLogger(), AMQPConfig{})

	err := pub.Connect()
	require.Error(t, err)
	assert.False(t, pub.IsConnected())

	err = pub.PublishRecord("call-1", &analytics.Record{}, nil)
	require.Error(t, err)
}

func TestNewAMQPPublisherDefaultsRoutingKey(t *testing.T) {
	pub := NewAMQPPublisher(testLogger(), AMQPConfig{
		URL:       "amqp://localhost:5672",
		QueueName: "records",
	})

	assert.Equal(t, "records", pub.config.RoutingKey)
	assert.True(t, pub.config.Durable)
}
