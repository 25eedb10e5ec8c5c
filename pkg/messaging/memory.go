package messaging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/analytics"
)

// MemoryPublisher buffers records in memory. It backs deployments that run
// without a broker and absorbs records while the AMQP connection is down.
// The buffer is bounded; once full, the oldest record is dropped.
type MemoryPublisher struct {
	logger   *logrus.Logger
	capacity int

	mu      sync.Mutex
	records []RecordMessage
	dropped int
}

// NewMemoryPublisher creates a memory publisher holding at most capacity records.
func NewMemoryPublisher(logger *logrus.Logger, capacity int) *MemoryPublisher {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryPublisher{
		logger:   logger,
		capacity: capacity,
	}
}

// PublishRecord appends the record to the buffer, evicting the oldest entry
// when the buffer is at capacity.
func (m *MemoryPublisher) PublishRecord(callUUID string, record *analytics.Record, metadata map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) >= m.capacity {
		m.records = m.records[1:]
		m.dropped++
		if m.dropped%100 == 1 {
			m.logger.WithField("dropped_total", m.dropped).Warn("Memory publisher buffer full, dropping oldest records")
		}
	}

	m.records = append(m.records, RecordMessage{
		CallUUID:  callUUID,
		Record:    record,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	return nil
}

// IsConnected always reports true; the buffer accepts records unconditionally.
func (m *MemoryPublisher) IsConnected() bool {
	return true
}

// Records returns a snapshot of the buffered records.
func (m *MemoryPublisher) Records() []RecordMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RecordMessage, len(m.records))
	copy(out, m.records)
	return out
}

// Dropped returns how many records were evicted due to a full buffer.
func (m *MemoryPublisher) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Drain returns all buffered records and empties the buffer.
func (m *MemoryPublisher) Drain() []RecordMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.records
	m.records = nil
	return out
}
