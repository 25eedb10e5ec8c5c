package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/errors"
	"call-analytics-server/pkg/messaging"
	"call-analytics-server/pkg/metrics"
	"call-analytics-server/pkg/service"
)

// Server exposes the analysis service over HTTP: the analyze endpoints,
// health checks, Prometheus metrics and the websocket result stream.
type Server struct {
	config     *Config
	logger     *logrus.Logger
	httpServer *http.Server
	mux        *http.ServeMux
	svc        *service.Service
	publisher  messaging.Publisher
	hub        *ResultHub
	startTime  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(logger *logrus.Logger, config *Config, svc *service.Service, publisher messaging.Publisher) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	server := &Server{
		config:    config,
		logger:    logger,
		svc:       svc,
		publisher: publisher,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	server.mux = mux

	// Health endpoints
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/health/live", server.livenessHandler)
	mux.HandleFunc("/health/ready", server.readinessHandler)
	mux.HandleFunc("/status", server.statusHandler)

	// Analysis endpoints
	mux.HandleFunc("/api/analyze", server.analyzeHandler)
	mux.HandleFunc("/api/analyze/audio", server.analyzeAudioHandler)

	// Metrics endpoint
	if config.EnableMetrics {
		if registry := metrics.GetRegistry(); registry != nil {
			promHandler := promhttp.HandlerFor(
				registry,
				promhttp.HandlerOpts{
					EnableOpenMetrics: true,
					Registry:          registry,
				},
			)
			mux.Handle("/metrics", promHandler)
			logger.Info("Prometheus metrics endpoint enabled at /metrics")
		} else {
			logger.Warn("Metrics registry not initialized, metrics endpoint disabled")
		}
	} else {
		logger.Info("Metrics endpoint disabled")
	}

	// Websocket result stream
	if config.EnableWebsocket {
		server.hub = NewResultHub(logger)
		if svc != nil {
			svc.AddListener(server.hub.BroadcastResult)
		}
		mux.HandleFunc("/ws", server.hub.ServeWs)
		logger.Info("WebSocket result stream enabled at /ws")
	}

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server
}

// Hub returns the websocket result hub, or nil when disabled.
func (s *Server) Hub() *ResultHub {
	return s.hub
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server in a goroutine; the hub runs until ctx ends.
func (s *Server) Start(ctx context.Context) {
	s.logger.WithField("port", s.config.Port).Info("Starting HTTP server")

	if s.hub != nil {
		go s.hub.Run(ctx)
	}

	go func() {
		s.logger.Infof("HTTP server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server failed")
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

// statusHandler handles the /status endpoint
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.WithField("endpoint", "/status").Debug("Status endpoint accessed")

	status := map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"started_at": s.startTime.Format(time.RFC3339),
	}

	if s.hub != nil {
		status["websocket_clients"] = s.hub.ClientCount()
	}
	if s.publisher != nil {
		status["publisher_connected"] = s.publisher.IsConnected()
	}

	writeJSON(w, http.StatusOK, status)
}

// ErrorResponse sends a standardized error response
func (s *Server) ErrorResponse(w http.ResponseWriter, err error) {
	errors.WriteError(w, err)
	s.logger.WithError(err).Warn("HTTP error response sent")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
