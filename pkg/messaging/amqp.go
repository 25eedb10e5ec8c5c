package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"call-analytics-server/pkg/analytics"
	"call-analytics-server/pkg/metrics"
)

// AMQPConfig holds AMQP publisher configuration
type AMQPConfig struct {
	URL          string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Durable      bool
	AutoDelete   bool
}

// AMQPPublisher handles AMQP connections and record publishing
type AMQPPublisher struct {
	logger    *logrus.Logger
	config    AMQPConfig
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
	connMutex sync.RWMutex
	stopChan  chan struct{}
}

// NewAMQPPublisher creates a new AMQP publisher
func NewAMQPPublisher(logger *logrus.Logger, config AMQPConfig) *AMQPPublisher {
	if config.RoutingKey == "" {
		config.RoutingKey = config.QueueName
	}
	config.Durable = true
	config.AutoDelete = false

	return &AMQPPublisher{
		logger:   logger,
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// Connect establishes a connection to the AMQP server
func (p *AMQPPublisher) Connect() error {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.connected {
		return nil
	}

	if p.config.URL == "" || p.config.QueueName == "" {
		p.logger.Warn("AMQP_URL or AMQP_QUEUE_NAME not set, AMQP publishing will be disabled")
		return fmt.Errorf("AMQP URL or queue name not configured")
	}

	// Dial with a timeout so a dead broker cannot stall startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connChan := make(chan struct {
		conn *amqp.Connection
		err  error
	}, 1)

	go func() {
		conn, err := amqp.Dial(p.config.URL)
		select {
		case <-ctx.Done():
			if conn != nil {
				conn.Close()
			}
			return
		case connChan <- struct {
			conn *amqp.Connection
			err  error
		}{conn, err}:
		}
	}()

	var conn *amqp.Connection
	var err error
	select {
	case result := <-connChan:
		conn = result.conn
		err = result.err
	case <-ctx.Done():
		countConnectionError("dial_timeout")
		return fmt.Errorf("connection to AMQP server timed out after 5 seconds")
	}

	if err != nil {
		countConnectionError("dial")
		return fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	p.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		countConnectionError("channel")
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	p.channel = channel

	_, err = channel.QueueDeclare(
		p.config.QueueName,
		p.config.Durable,
		p.config.AutoDelete,
		false, // Exclusive
		false, // No-wait
		nil,   // Arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		countConnectionError("queue_declare")
		return fmt.Errorf("failed to declare AMQP queue: %w", err)
	}

	if err := channel.Qos(10, 0, false); err != nil {
		p.logger.WithError(err).Warn("Failed to set QoS on AMQP channel, continuing anyway")
	}

	p.connected = true
	setConnectionStatus(1)
	p.logger.WithFields(logrus.Fields{
		"url":   p.config.URL,
		"queue": p.config.QueueName,
	}).Info("Connected to AMQP server")

	// Fresh stop channel in case this is a reconnect
	p.stopChan = make(chan struct{})

	go p.monitorConnection()

	return nil
}

// Disconnect closes the AMQP connection
func (p *AMQPPublisher) Disconnect() {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if !p.connected {
		return
	}

	close(p.stopChan)

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}

	p.connected = false
	setConnectionStatus(0)
	p.logger.Info("Disconnected from AMQP server")
}

// IsConnected returns the connection status
func (p *AMQPPublisher) IsConnected() bool {
	p.connMutex.RLock()
	defer p.connMutex.RUnlock()
	return p.connected
}

// PublishRecord publishes an analysis record to the AMQP queue
func (p *AMQPPublisher) PublishRecord(callUUID string, record *analytics.Record, metadata map[string]interface{}) error {
	// Recover from any panics so AMQP issues cannot crash the server
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"call_uuid": callUUID,
				"recover":   r,
			}).Error("Recovered from panic in AMQP PublishRecord")
		}
	}()

	if !p.IsConnected() {
		countPublish(p.config.QueueName, "not_connected")
		return fmt.Errorf("not connected to AMQP server")
	}

	message := RecordMessage{
		CallUUID:  callUUID,
		Record:    record,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	bodyBytes, err := json.Marshal(message)
	if err != nil {
		countPublish(p.config.QueueName, "marshal_error")
		return fmt.Errorf("failed to marshal record to JSON: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	publishChan := make(chan error, 1)
	go func() {
		p.connMutex.RLock()
		defer p.connMutex.RUnlock()

		if !p.connected || p.channel == nil {
			select {
			case <-ctx.Done():
				return
			case publishChan <- fmt.Errorf("lost AMQP connection before publishing"):
			}
			return
		}

		err := p.channel.Publish(
			p.config.ExchangeName,
			p.config.RoutingKey,
			false, // Mandatory
			false, // Immediate
			amqp.Publishing{
				ContentType:  "application/json",
				Body:         bodyBytes,
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
			},
		)

		select {
		case <-ctx.Done():
			return
		case publishChan <- err:
		}
	}()

	select {
	case err := <-publishChan:
		if err != nil {
			countPublish(p.config.QueueName, "error")
			return fmt.Errorf("failed to publish record to AMQP: %w", err)
		}
	case <-ctx.Done():
		countPublish(p.config.QueueName, "timeout")
		return fmt.Errorf("publishing to AMQP timed out after 200ms")
	}

	countPublish(p.config.QueueName, "success")
	p.logger.WithField("call_uuid", callUUID).Debug("Successfully published record to AMQP")
	return nil
}

// monitorConnection watches the AMQP connection and reconnects if it closes
func (p *AMQPPublisher) monitorConnection() {
	closeChan := make(chan *amqp.Error)

	p.connMutex.RLock()
	if p.conn != nil {
		p.conn.NotifyClose(closeChan)
	}
	p.connMutex.RUnlock()

	for {
		select {
		case <-p.stopChan:
			return
		case closeErr := <-closeChan:
			p.connMutex.Lock()
			p.connected = false
			p.connMutex.Unlock()
			setConnectionStatus(0)

			p.logger.WithError(closeErr).Warn("AMQP connection closed, attempting to reconnect")

			for attempt := 1; attempt <= 10; attempt++ {
				p.logger.WithField("attempt", attempt).Info("Reconnecting to AMQP server")

				err := p.Connect()
				if err == nil {
					countReconnect("success")
					p.logger.Info("Successfully reconnected to AMQP server")
					return
				}

				countReconnect("failure")
				p.logger.WithError(err).WithField("attempt", attempt).Error("Failed to reconnect to AMQP server")

				// Exponential backoff capped at 30 seconds
				backoff := time.Duration(1<<uint(attempt-1)) * time.Second
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}

				select {
				case <-p.stopChan:
					return
				case <-time.After(backoff):
				}
			}
			return
		}
	}
}

// Metric helpers tolerate an uninitialized metrics package so the publisher
// stays usable in tests that never call metrics.Init.

func countPublish(queue, status string) {
	if metrics.AMQPPublishedMessages != nil {
		metrics.AMQPPublishedMessages.WithLabelValues(queue, status).Inc()
	}
}

func countConnectionError(errorType string) {
	if metrics.AMQPConnectionErrors != nil {
		metrics.AMQPConnectionErrors.WithLabelValues(errorType).Inc()
	}
}

func countReconnect(status string) {
	if metrics.AMQPReconnectAttempts != nil {
		metrics.AMQPReconnectAttempts.WithLabelValues(status).Inc()
	}
}

func setConnectionStatus(value float64) {
	if metrics.AMQPConnectionStatus != nil {
		metrics.AMQPConnectionStatus.Set(value)
	}
}
