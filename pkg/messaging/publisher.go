package messaging

import (
	"time"

	"call-analytics-server/pkg/analytics"
)

// RecordMessage is the envelope published for each completed analysis.
type RecordMessage struct {
	CallUUID  string                 `json:"call_uuid"`
	Record    *analytics.Record      `json:"record"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Publisher delivers completed analytics records to downstream consumers.
type Publisher interface {
	// PublishRecord delivers one analysis record. Implementations must not
	// block indefinitely; callers treat a returned error as a delivery failure.
	PublishRecord(callUUID string, record *analytics.Record, metadata map[string]interface{}) error

	// IsConnected reports whether the publisher can currently deliver.
	IsConnected() bool
}
