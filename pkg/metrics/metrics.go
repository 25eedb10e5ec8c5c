package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry           *prometheus.Registry
	registryOnce       sync.Once
	defaultMetricsPath = "/metrics"
	metricsEnabled     = true

	// Analysis pipeline metrics
	AnalysisRequestsTotal *prometheus.CounterVec
	AnalysisDuration      prometheus.Histogram

	// Detection metrics
	PIIDetectionsTotal        *prometheus.CounterVec
	ProhibitedDetectionsTotal prometheus.Counter
	ComplianceChecksTotal     *prometheus.CounterVec
	CategoriesAssignedTotal   *prometheus.CounterVec

	// STT metrics
	STTRequestsTotal *prometheus.CounterVec
	STTLatency       *prometheus.HistogramVec

	// AMQP metrics
	AMQPPublishedMessages *prometheus.CounterVec
	AMQPConnectionErrors  *prometheus.CounterVec
	AMQPReconnectAttempts *prometheus.CounterVec
	AMQPConnectionStatus  prometheus.Gauge

	// Websocket metrics
	WebsocketClientsActive prometheus.Gauge
)

// Init initializes all metrics and registers them with Prometheus
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		// Initialize analysis pipeline metrics
		AnalysisRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_requests_total",
				Help: "Total number of analysis requests",
			},
			[]string{"status"},
		)

		AnalysisDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "call_analytics_analysis_duration_seconds",
				Help:    "Time taken to run the analysis pipeline",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
			},
		)

		// Initialize detection metrics
		PIIDetectionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_pii_detections_total",
				Help: "Total number of PII entities detected in transcripts",
			},
			[]string{"entity"},
		)

		ProhibitedDetectionsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "call_analytics_prohibited_detections_total",
				Help: "Total number of transcripts containing prohibited language",
			},
		)

		ComplianceChecksTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_compliance_checks_total",
				Help: "Total number of compliance category checks",
			},
			[]string{"category", "compliant"},
		)

		CategoriesAssignedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_categories_assigned_total",
				Help: "Total number of category tags assigned to transcripts",
			},
			[]string{"category"},
		)

		// Initialize STT metrics
		STTRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_stt_requests_total",
				Help: "Total number of STT requests",
			},
			[]string{"vendor", "status"},
		)

		STTLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "call_analytics_stt_latency_seconds",
				Help:    "Latency of STT requests",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
			},
			[]string{"vendor"},
		)

		// Initialize AMQP metrics
		AMQPPublishedMessages = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_amqp_published_messages_total",
				Help: "Total number of messages published to AMQP",
			},
			[]string{"queue", "status"},
		)

		AMQPConnectionErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_amqp_connection_errors_total",
				Help: "Total number of AMQP connection errors",
			},
			[]string{"error_type"},
		)

		AMQPReconnectAttempts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_analytics_amqp_reconnect_attempts_total",
				Help: "Total number of AMQP reconnection attempts",
			},
			[]string{"status"},
		)

		AMQPConnectionStatus = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "call_analytics_amqp_connection_status",
				Help: "Status of AMQP connection (1 = connected, 0 = disconnected)",
			},
		)

		// Initialize websocket metrics
		WebsocketClientsActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "call_analytics_websocket_clients_active",
				Help: "Number of websocket clients subscribed to the result stream",
			},
		)

		// Register all metrics
		registry.MustRegister(
			// Analysis pipeline metrics
			AnalysisRequestsTotal,
			AnalysisDuration,

			// Detection metrics
			PIIDetectionsTotal,
			ProhibitedDetectionsTotal,
			ComplianceChecksTotal,
			CategoriesAssignedTotal,

			// STT metrics
			STTRequestsTotal,
			STTLatency,

			// AMQP metrics
			AMQPPublishedMessages,
			AMQPConnectionErrors,
			AMQPReconnectAttempts,
			AMQPConnectionStatus,

			// Websocket metrics
			WebsocketClientsActive,
		)

		logger.Info("Prometheus metrics initialized")
	})
}

// GetRegistry returns the prometheus registry
func GetRegistry() *prometheus.Registry {
	return registry
}

// SetMetricsPath sets the HTTP path for metrics endpoint
func SetMetricsPath(path string) {
	defaultMetricsPath = path
}

// EnableMetrics enables or disables metrics collection
func EnableMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IsMetricsEnabled returns whether metrics are enabled
func IsMetricsEnabled() bool {
	return metricsEnabled
}

// RegisterHandler registers the metrics HTTP handler
func RegisterHandler(mux *http.ServeMux) {
	if metricsEnabled {
		handler := promhttp.HandlerFor(
			registry,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
				Registry:          registry,
			},
		)
		mux.Handle(defaultMetricsPath, handler)
	}
}

// StartMetrics initializes the metrics service
func StartMetrics(logger *logrus.Logger, enabled bool) {
	if !enabled {
		EnableMetrics(false)
		logger.Info("Metrics collection is disabled")
		return
	}

	Init(logger)
	EnableMetrics(true)
	logger.WithField("metrics_path", defaultMetricsPath).Info("Metrics endpoint initialized")
}
