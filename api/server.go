// Package api - Thin HTTP layer over the tolerance engine
// The API is ONLY responsible for: input decoding, language negotiation,
// engine invocation and JSON serialization. It never computes limits itself.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"isofit/core/engine"
	"isofit/core/output"
	"isofit/internal/errors"
	"isofit/internal/i18n"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds every request body
const maxBodyBytes = 1 << 20

// Options configures a Server
type Options struct {
	Version string

	// Engine holds the defaults for incomplete requests
	Engine engine.EngineConfig

	// Workers bounds batch concurrency; 0 means the runner default
	Workers int

	// Metrics enables the /metrics endpoint and calculation counters
	Metrics bool

	// Logger defaults to a no-op logger
	Logger *zap.Logger
}

// Server is the API server
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	handler http.Handler
	version string
	workers int
	metrics *Metrics
	logger  *zap.Logger
	lang    string
}

// NewServer creates a server with its routes registered
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		version: opts.Version,
		workers: opts.Workers,
		logger:  logger,
		lang:    opts.Engine.DefaultLanguage,
	}

	var observer engine.Observer
	if opts.Metrics {
		s.metrics = NewMetrics()
		observer = s.metrics
	}
	s.engine = engine.NewEngine(opts.Engine, observer)

	s.registerRoutes()
	s.handler = s.middleware(s.mux)
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Calculation endpoints
	s.mux.HandleFunc("POST /calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /fit", s.handleFit)
	s.mux.HandleFunc("POST /advise", s.handleAdvise)
	s.mux.HandleFunc("POST /batch", s.handleBatch)

	// Reference data
	s.mux.HandleFunc("GET /fits", s.handleFits)
	s.mux.HandleFunc("GET /grades", s.handleGrades)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts a bare server on addr
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// middleware assigns request ids, bounds bodies, and logs and measures every request
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, rec.status, elapsed)
		}
		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

// language picks the request language: body field, then ?lang=, then
// Accept-Language, then the configured default.
func (s *Server) language(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if q := r.URL.Query().Get("lang"); q != "" {
		return q
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		return h
	}
	return s.lang
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

// writeError writes an error response localized for lang
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, lang string) {
	view := output.NewErrorView(err, lang)
	status := statusFor(view.Type)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      string(view.Type),
		Message:   view.Message,
		Field:     view.Field,
		RequestID: RequestID(r.Context()),
	}}, status)
}

// statusFor maps an error kind to an HTTP status. Calculation failures are
// well-formed requests the engine rejects, so they are 422.
func statusFor(kind errors.Type) int {
	switch kind {
	case errors.TypeOutOfRange, errors.TypeInvalidFormat, errors.TypeUnsupportedGrade,
		errors.TypeUnsupportedLetter, errors.TypeMissingGrade:
		return http.StatusUnprocessableEntity
	case errors.TypeInput, errors.TypeParsing:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.TypeInput, "invalid JSON body", err).WithContext("value", err.Error())
	}
	return nil
}

// matched returns the canonical tag string of a language preference
func matched(lang string) string {
	return i18n.Match(lang).String()
}
