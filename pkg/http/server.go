package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leowmjw/go-field-timeline/pkg/hcl"
	"github.com/leowmjw/go-field-timeline/pkg/sequence"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// maxBodySize bounds description and buffer uploads
const maxBodySize = 4 << 20

const requestIDHeader = "X-Request-ID"

var formatNames = map[string]string{
	hcl.ContentTypeHCL:  "HCL",
	hcl.ContentTypeJSON: "JSON",
	hcl.ContentTypeYAML: "YAML",
}

// Server represents the HTTP server for the timeline inspection service
type Server struct {
	logger  *slog.Logger
	backend Backend
	addr    string
}

// NewServer creates a new HTTP server
func NewServer(logger *slog.Logger, backend Backend, addr string) *Server {
	return &Server{
		logger:  logger,
		backend: backend,
		addr:    addr,
	}
}

// Handler returns the routed handler wrapped in the logging and metrics
// middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sequences/inspect", s.handleInspect)
	mux.HandleFunc("POST /timelines/decode", s.handleDecodeTimeline)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.loggingMiddleware(instrument(mux))
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// Inspection endpoint, accepts a JSON, HCL or YAML description
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	contentType, err := hcl.DetectContentType(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	format := formatNames[contentType]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	desc, err := hcl.DecodeDescription(contentType, body)
	if err != nil {
		inspectionCountMetric.WithLabelValues(format, outcomeInvalid).Inc()
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s description: %v", format, err))
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		desc.Name = name
	}

	s.logger.Info("Inspecting sequence",
		"request_id", r.Header.Get(requestIDHeader),
		"name", desc.Name,
		"format", format,
		"fields", len(desc.Fields),
	)

	report, err := s.backend.Inspect(r.Context(), desc)
	if err != nil {
		if errors.Is(err, sequence.ErrInvalidDescription) || errors.Is(err, timeline.ErrConstruction) {
			inspectionCountMetric.WithLabelValues(format, outcomeInvalid).Inc()
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		inspectionCountMetric.WithLabelValues(format, outcomeFailed).Inc()
		s.logger.Error("Failed to inspect sequence", "request_id", r.Header.Get(requestIDHeader), "error", err)
		s.respondError(w, http.StatusInternalServerError, "inspection failed")
		return
	}

	inspectionCountMetric.WithLabelValues(format, outcomeOK).Inc()
	for _, q := range report.Queries {
		if q.Error != "" {
			queryFailureCountMetric.Inc()
		}
	}

	s.respondJSON(w, http.StatusOK, report)
}

// Decode endpoint, rebuilds a timeline from tiny serialization buffers
func (s *Server) handleDecodeTimeline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var buffers sequence.Flattened
	if err := json.NewDecoder(r.Body).Decode(&buffers); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := s.backend.DecodeTimeline(r.Context(), buffers)
	if err != nil {
		if errors.Is(err, timeline.ErrConstruction) {
			decodeCountMetric.WithLabelValues(outcomeInvalid).Inc()
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		decodeCountMetric.WithLabelValues(outcomeFailed).Inc()
		s.logger.Error("Failed to decode timeline", "request_id", r.Header.Get(requestIDHeader), "error", err)
		s.respondError(w, http.StatusInternalServerError, "decode failed")
		return
	}
	decodeCountMetric.WithLabelValues(outcomeOK).Inc()

	s.logger.Info("Decoded timeline", "slices", summary.Slices, "eps", summary.Eps)
	s.respondJSON(w, http.StatusOK, summary)
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Middleware for request logging. A request ID is assigned unless the client
// already sent one.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(requestIDHeader, requestID)
		}
		w.Header().Set(requestIDHeader, requestID)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		s.logger.Info("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
			"user_agent", r.UserAgent(),
		)
	})
}

// Response helpers
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.logger.Warn("HTTP error response", "status", status, "message", message)
	s.respondJSON(w, status, map[string]string{"error": message})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
