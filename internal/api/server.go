package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/api/middleware"
	"github.com/khanhnv2901/site-checker/internal/domain/report"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

// checkFailedMessage is the error text of every 500 from the check routes.
const checkFailedMessage = "Error checking website security"

// CheckRequest is the body accepted by the check routes.
type CheckRequest struct {
	URL string `json:"url"`
}

// SiteChecker produces a security report for a URL.
type SiteChecker interface {
	Check(ctx context.Context, url string) (*report.CheckReport, error)
}

type HealthService interface {
	Check(ctx context.Context) error
	Ready(ctx context.Context) error
}

type Config struct {
	Checker     SiteChecker
	Health      HealthService
	AuthToken   string
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
}

type Server struct {
	cfg     Config
	router  chi.Router
	handler http.Handler
}

func NewServer(cfg Config) *Server {
	srv := &Server{cfg: cfg}
	srv.routes()
	// Middleware chain: RequestID -> Logging -> Recovery -> CORS -> Router
	srv.handler = middleware.RequestID(srv.withLogging(srv.withRecovery(srv.withCORS(srv.router))))
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)
		r.Post("/check", s.handleCheck)
		// Route used by the bundled web front end.
		r.Post("/api/check", s.handleCheck)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Check(r.Context()); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Checker == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errors.New("site checker not configured"))
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Ready(r.Context()); err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Checker == nil {
		s.writeCheckFailure(w, r, errors.New("site checker not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxRequestBodyBytes)
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		if err != nil {
			s.requestLogger(r).Debug("invalid_check_request", zap.Error(err))
		}
		s.writeError(w, r, http.StatusBadRequest, sharederrors.ErrMissingURL)
		return
	}

	rep, err := s.cfg.Checker.Check(r.Context(), req.URL)
	if errors.Is(err, sharederrors.ErrMissingURL) {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		s.writeCheckFailure(w, r, err)
		return
	}

	body, err := json.Marshal(rep)
	if err != nil {
		s.writeCheckFailure(w, r, fmt.Errorf("%w: %v", sharederrors.ErrSerializationFailed, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.requestLogger(r).Error("failed to write response", zap.Error(err))
	}
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Determine if origin is allowed
		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			if slices.Contains(s.cfg.CORSOrigins, origin) {
				allowOrigin = origin
			}
		}

		// Set CORS headers
		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth-Token, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Process request
		next.ServeHTTP(lrw, r)

		// Log request details with request ID
		duration := time.Since(start)
		if s.cfg.Logger != nil {
			requestID := middleware.GetRequestID(r.Context())
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", duration),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

// withRecovery turns a handler panic into a 500 response.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pc panics.Catcher
		pc.Try(func() { next.ServeHTTP(w, r) })

		rec := pc.Recovered()
		if rec == nil {
			return
		}
		if rec.Value == http.ErrAbortHandler {
			panic(rec.Value)
		}
		s.requestLogger(r).Error("handler_panic",
			zap.Any("panic", rec.Value),
			zap.String("stack", string(rec.Stack)),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   checkFailedMessage,
			"message": "internal server error",
		})
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Auth-Token")
		// Use constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, r, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	// Sanitize error messages to prevent information disclosure
	msg := err.Error()

	// For 5xx errors, return generic message and log details server-side
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// writeCheckFailure reports a fault that stopped a report from being produced.
// Failures of individual checks never get here; they are part of the report.
func (s *Server) writeCheckFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.requestLogger(r).Error("internal_server_error",
		zap.Error(err),
		zap.Int("status", http.StatusInternalServerError),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   checkFailedMessage,
		"message": err.Error(),
	})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}

	requestID := middleware.GetRequestID(r.Context())
	return s.cfg.Logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
