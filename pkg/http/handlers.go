package http

import (
	"encoding/json"
	"net/http"
	"time"

	"call-analytics-server/pkg/analytics"
	"call-analytics-server/pkg/errors"
)

// AnalyzeRequest is the JSON body of POST /api/analyze.
type AnalyzeRequest struct {
	CallUUID        string                  `json:"call_uuid,omitempty"`
	Transcript      string                  `json:"transcript"`
	Turns           []analytics.SpeakerTurn `json:"turns,omitempty"`
	DurationSeconds float64                 `json:"duration_seconds"`
}

// analyzeHandler runs the analysis pipeline on a pre-transcribed call.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.svc == nil {
		s.ErrorResponse(w, errors.ErrUnavailable)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.ErrorResponse(w, errors.NewInvalidInput("request body is not valid JSON"))
		return
	}

	result, err := s.svc.AnalyzeTranscript(r.Context(), req.CallUUID, analytics.Input{
		Transcript:      req.Transcript,
		Turns:           req.Turns,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		s.ErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// analyzeAudioHandler transcribes and diarizes raw audio, then analyzes it.
// The request body is the audio stream; the STT provider is chosen with the
// provider query parameter and the call id with call_uuid.
func (s *Server) analyzeAudioHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.svc == nil {
		s.ErrorResponse(w, errors.ErrUnavailable)
		return
	}

	callUUID := r.URL.Query().Get("call_uuid")
	provider := r.URL.Query().Get("provider")

	result, err := s.svc.AnalyzeAudio(r.Context(), callUUID, provider, r.Body)
	if err != nil {
		s.ErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// healthHandler reports overall service health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"uptime_s":  time.Since(s.startTime).Seconds(),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if s.publisher != nil && !s.publisher.IsConnected() {
		// Analysis still works; publishing falls behind.
		health["status"] = "degraded"
		health["publisher_connected"] = false
	}

	writeJSON(w, status, health)
}

// livenessHandler reports that the process is up.
func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// readinessHandler reports whether the server can take analysis traffic.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
