package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/analytics"
	"call-analytics-server/pkg/config"
	"call-analytics-server/pkg/diarize"
	http_server "call-analytics-server/pkg/http"
	"call-analytics-server/pkg/messaging"
	"call-analytics-server/pkg/metrics"
	"call-analytics-server/pkg/rules"
	"call-analytics-server/pkg/sentiment"
	"call-analytics-server/pkg/service"
	"call-analytics-server/pkg/stt"
)

var logger = logrus.New()

func main() {
	// Structured JSON logging from the start; reconfigured from config below
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	appConfig, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := appConfig.ApplyLogging(logger); err != nil {
		logger.WithError(err).Fatal("Failed to apply logging configuration")
	}

	metrics.StartMetrics(logger, appConfig.HTTP.EnableMetrics)

	ruleSet, err := rules.Load(logger, appConfig.Rules.Path)
	if err != nil {
		logger.WithError(err).WithField("path", appConfig.Rules.Path).Fatal("Failed to load analytics rule set")
	}

	engine, err := analytics.NewEngine(logger, ruleSet)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build analysis engine")
	}

	sttManager := stt.NewProviderManager(logger, appConfig.STT.DefaultProvider)
	for _, name := range appConfig.STT.SupportedProviders {
		switch name {
		case "mock":
			if err := sttManager.RegisterProvider(stt.NewMockProvider(logger)); err != nil {
				logger.WithError(err).Fatal("Failed to register mock STT provider")
			}
		default:
			logger.WithField("provider", name).Warn("Unknown STT provider in SUPPORTED_PROVIDERS, skipping")
		}
	}

	publisher := buildPublisher(appConfig)

	svc, err := service.New(logger, service.Options{
		Engine:     engine,
		Sentiment:  sentiment.NewAnalyzer(logger),
		STTManager: sttManager,
		Diarizer:   diarize.NewMockProvider(logger),
		Publisher:  publisher,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to build analysis service")
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	httpConfig := &http_server.Config{
		Port:            appConfig.HTTP.Port,
		Enabled:         appConfig.HTTP.Enabled,
		EnableMetrics:   appConfig.HTTP.EnableMetrics,
		EnableWebsocket: appConfig.HTTP.EnableWebsocket,
		ReadTimeout:     appConfig.HTTP.ReadTimeout,
		WriteTimeout:    appConfig.HTTP.WriteTimeout,
		ShutdownTimeout: 5 * time.Second,
	}

	server := http_server.NewServer(logger, httpConfig, svc, publisher)
	if appConfig.HTTP.Enabled {
		server.Start(rootCtx)
	} else {
		logger.Warn("HTTP server disabled, no analysis endpoints are exposed")
	}

	logger.WithFields(logrus.Fields{
		"http_port":  appConfig.HTTP.Port,
		"rules_path": appConfig.Rules.Path,
	}).Info("Call analytics server started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutdown signal received")

	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}

	if amqpPublisher, ok := publisher.(*messaging.AMQPPublisher); ok {
		amqpPublisher.Disconnect()
	}

	logger.Info("Call analytics server stopped")
}

// buildPublisher connects the AMQP publisher when a broker is configured and
// falls back to the in-memory buffer otherwise.
func buildPublisher(appConfig *config.Config) messaging.Publisher {
	if appConfig.Messaging.AMQPUrl == "" {
		logger.Info("AMQP not configured, buffering analysis records in memory")
		return messaging.NewMemoryPublisher(logger, appConfig.Messaging.BufferSize)
	}

	amqpPublisher := messaging.NewAMQPPublisher(logger, messaging.AMQPConfig{
		URL:       appConfig.Messaging.AMQPUrl,
		QueueName: appConfig.Messaging.AMQPQueueName,
	})
	if err := amqpPublisher.Connect(); err != nil {
		logger.WithError(err).Warn("AMQP connection failed, buffering analysis records in memory")
		return messaging.NewMemoryPublisher(logger, appConfig.Messaging.BufferSize)
	}
	return amqpPublisher
}
