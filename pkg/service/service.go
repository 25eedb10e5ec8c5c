package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/analytics"
	"call-analytics-server/pkg/diarize"
	"call-analytics-server/pkg/errors"
	"call-analytics-server/pkg/messaging"
	"call-analytics-server/pkg/metrics"
	"call-analytics-server/pkg/sentiment"
	"call-analytics-server/pkg/stt"
)

// AnalysisResult bundles everything produced for one call.
type AnalysisResult struct {
	CallUUID  string              `json:"call_uuid"`
	Record    *analytics.Record   `json:"record"`
	Sentiment sentiment.Sentiment `json:"sentiment"`
}

// Listener receives every completed analysis result.
type Listener func(result *AnalysisResult)

// Service runs the full call-analysis flow: transcription and diarization
// when starting from audio, then the rule pipeline, sentiment, metrics and
// record publishing.
type Service struct {
	logger     *logrus.Logger
	engine     *analytics.Engine
	sentiment  *sentiment.Analyzer
	sttManager *stt.ProviderManager
	diarizer   diarize.Provider
	publisher  messaging.Publisher

	listenerMutex sync.RWMutex
	listeners     []Listener
}

// Options holds the collaborators a Service is built from. Engine and
// Publisher are required; STTManager and Diarizer are only needed when audio
// requests must be served.
type Options struct {
	Engine     *analytics.Engine
	Sentiment  *sentiment.Analyzer
	STTManager *stt.ProviderManager
	Diarizer   diarize.Provider
	Publisher  messaging.Publisher
}

// New creates the analysis service.
func New(logger *logrus.Logger, opts Options) (*Service, error) {
	if opts.Engine == nil {
		return nil, errors.New("analysis engine is required")
	}
	if opts.Publisher == nil {
		return nil, errors.New("record publisher is required")
	}

	return &Service{
		logger:     logger,
		engine:     opts.Engine,
		sentiment:  opts.Sentiment,
		sttManager: opts.STTManager,
		diarizer:   opts.Diarizer,
		publisher:  opts.Publisher,
	}, nil
}

// AddListener registers a callback invoked for every completed analysis.
func (s *Service) AddListener(listener Listener) {
	s.listenerMutex.Lock()
	defer s.listenerMutex.Unlock()
	s.listeners = append(s.listeners, listener)
}

// AnalyzeTranscript runs the analysis pipeline on an already transcribed call.
// An empty callUUID is replaced with a fresh UUID.
func (s *Service) AnalyzeTranscript(ctx context.Context, callUUID string, input analytics.Input) (*AnalysisResult, error) {
	if callUUID == "" {
		callUUID = uuid.New().String()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	record, err := s.engine.Analyze(input)
	if err != nil {
		countRequest("error")
		s.logger.WithError(err).WithField("call_uuid", callUUID).Warn("Analysis failed")
		return nil, err
	}

	result := &AnalysisResult{
		CallUUID: callUUID,
		Record:   record,
	}
	if s.sentiment != nil {
		result.Sentiment = s.sentiment.AnalyzeText(record.Transcript)
	}

	s.recordMetrics(record, time.Since(startTime))

	if err := s.publisher.PublishRecord(callUUID, record, map[string]interface{}{
		"sentiment": result.Sentiment.Label,
	}); err != nil {
		// Publishing is best effort; the caller still gets the result.
		s.logger.WithError(err).WithField("call_uuid", callUUID).Warn("Failed to publish analysis record")
	}

	s.notifyListeners(result)

	s.logger.WithFields(logrus.Fields{
		"call_uuid":   callUUID,
		"categories":  record.Categories,
		"pii_types":   len(record.DetectedPII),
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Call analysis completed")

	return result, nil
}

// AnalyzeAudio transcribes and diarizes the audio stream, then runs the
// analysis pipeline on the outcome.
func (s *Service) AnalyzeAudio(ctx context.Context, callUUID, providerName string, audioStream io.Reader) (*AnalysisResult, error) {
	if s.sttManager == nil || s.diarizer == nil {
		return nil, errors.New("audio analysis requires STT and diarization providers")
	}

	if callUUID == "" {
		callUUID = uuid.New().String()
	}

	// Both providers need the full stream, so buffer it once.
	audio, err := io.ReadAll(audioStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read audio stream")
	}

	sttResult, err := s.sttManager.Transcribe(ctx, providerName, bytes.NewReader(audio), callUUID)
	if err != nil {
		countRequest("error")
		return nil, errors.Wrap(err, "transcription failed").WithField("call_uuid", callUUID)
	}

	turns, err := s.diarizer.Diarize(ctx, bytes.NewReader(audio), callUUID)
	if err != nil {
		countRequest("error")
		return nil, errors.Wrap(err, "diarization failed").WithField("call_uuid", callUUID)
	}

	return s.AnalyzeTranscript(ctx, callUUID, analytics.Input{
		Transcript:      sttResult.Transcript,
		Turns:           turns,
		DurationSeconds: sttResult.DurationSeconds,
	})
}

// notifyListeners fans the result out to registered listeners.
func (s *Service) notifyListeners(result *AnalysisResult) {
	s.listenerMutex.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMutex.RUnlock()

	for _, listener := range listeners {
		listener(result)
	}
}

// recordMetrics updates the pipeline metrics for one completed analysis.
func (s *Service) recordMetrics(record *analytics.Record, elapsed time.Duration) {
	countRequest("success")

	if metrics.AnalysisDuration != nil {
		metrics.AnalysisDuration.Observe(elapsed.Seconds())
	}

	if metrics.PIIDetectionsTotal != nil {
		for _, entity := range record.DetectedPII {
			metrics.PIIDetectionsTotal.WithLabelValues(string(entity)).Inc()
		}
	}

	if record.ProhibitedDetected && metrics.ProhibitedDetectionsTotal != nil {
		metrics.ProhibitedDetectionsTotal.Inc()
	}

	if metrics.ComplianceChecksTotal != nil {
		for category, compliant := range record.Compliance {
			status := "false"
			if compliant {
				status = "true"
			}
			metrics.ComplianceChecksTotal.WithLabelValues(category, status).Inc()
		}
	}

	if metrics.CategoriesAssignedTotal != nil {
		for _, category := range record.Categories {
			metrics.CategoriesAssignedTotal.WithLabelValues(category).Inc()
		}
	}
}

func countRequest(status string) {
	if metrics.AnalysisRequestsTotal != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(status).Inc()
	}
}
