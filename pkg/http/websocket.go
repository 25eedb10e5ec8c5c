package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/metrics"
	"call-analytics-server/pkg/service"
)

// ResultMessage is the websocket payload for one completed analysis.
type ResultMessage struct {
	CallUUID  string                  `json:"call_uuid"`
	Result    *service.AnalysisResult `json:"result"`
	Timestamp time.Time               `json:"timestamp"`
}

// Client represents a connected WebSocket client
type Client struct {
	hub      *ResultHub
	conn     *websocket.Conn
	send     chan []byte
	logger   *logrus.Logger
	callUUID string // Non-empty when the client follows one call only
}

// ResultHub manages WebSocket clients and broadcasts analysis results
type ResultHub struct {
	logger          *logrus.Logger
	clients         map[*Client]bool
	callSubscribers map[string]map[*Client]bool
	broadcast       chan *ResultMessage
	register        chan *Client
	unregister      chan *Client
	mutex           sync.RWMutex
}

// WebSocketUpgrader configures the WebSocket connection
var WebSocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewResultHub creates a new analysis-result hub
func NewResultHub(logger *logrus.Logger) *ResultHub {
	return &ResultHub{
		logger:          logger,
		clients:         make(map[*Client]bool),
		callSubscribers: make(map[string]map[*Client]bool),
		broadcast:       make(chan *ResultMessage, 64),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
	}
}

// Run starts the result hub
func (h *ResultHub) Run(ctx context.Context) {
	h.logger.Info("Starting WebSocket result hub")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Shutting down WebSocket result hub")
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true

			if client.callUUID != "" {
				if _, exists := h.callSubscribers[client.callUUID]; !exists {
					h.callSubscribers[client.callUUID] = make(map[*Client]bool)
				}
				h.callSubscribers[client.callUUID][client] = true
				h.logger.WithField("call_uuid", client.callUUID).Info("Client subscribed to specific call")
			}

			h.mutex.Unlock()
			setClientGauge(len(h.clients))
			h.logger.Info("Client connected to WebSocket")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if client.callUUID != "" {
					if subscribers, exists := h.callSubscribers[client.callUUID]; exists {
						delete(subscribers, client)
						if len(subscribers) == 0 {
							delete(h.callSubscribers, client.callUUID)
						}
					}
				}

				h.logger.Info("Client disconnected from WebSocket")
			}
			h.mutex.Unlock()
			setClientGauge(len(h.clients))

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.WithError(err).Error("Failed to marshal result message")
				continue
			}

			h.mutex.Lock()

			// Send to subscribers of this specific call
			if subscribers, exists := h.callSubscribers[message.CallUUID]; exists {
				for client := range subscribers {
					select {
					case client.send <- data:
					default:
						close(client.send)
						delete(h.clients, client)
						delete(subscribers, client)
					}
				}
			}

			// Broadcast to clients that follow all calls
			for client := range h.clients {
				if client.callUUID != "" {
					continue
				}

				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

			h.mutex.Unlock()
		}
	}
}

// BroadcastResult queues an analysis result for delivery to all relevant
// clients. The hub's Listener form lets it be registered on the service.
func (h *ResultHub) BroadcastResult(result *service.AnalysisResult) {
	message := &ResultMessage{
		CallUUID:  result.CallUUID,
		Result:    result,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.WithField("call_uuid", result.CallUUID).Warn("WebSocket broadcast queue full, dropping result")
	}
}

// ServeWs handles WebSocket requests from clients
func (h *ResultHub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := WebSocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade connection to WebSocket")
		return
	}

	// Optional per-call subscription
	callUUID := r.URL.Query().Get("call_uuid")

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		logger:   h.logger,
		callUUID: callUUID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of connected clients.
func (h *ResultHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(60 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Ping to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and closes are processed
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func setClientGauge(count int) {
	if metrics.WebsocketClientsActive != nil {
		metrics.WebsocketClientsActive.Set(float64(count))
	}
}
