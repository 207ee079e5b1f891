package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// requestLogger is middleware that logs HTTP requests
type requestLogger struct {
	handler http.Handler
	logger  *zap.Logger
}

// responseCapture wraps http.ResponseWriter to capture status code
type responseCapture struct {
	http.ResponseWriter
	status int
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.status = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if rc.status == 0 {
		rc.status = http.StatusOK
	}
	return rc.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rc *responseCapture) Unwrap() http.ResponseWriter {
	return rc.ResponseWriter
}

// newRequestLogger creates request logging middleware
func newRequestLogger(handler http.Handler, logger *zap.Logger) *requestLogger {
	return &requestLogger{
		handler: handler,
		logger:  logger,
	}
}

func (rl *requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rc := &responseCapture{ResponseWriter: w, status: 0}
	rl.handler.ServeHTTP(rc, r)

	duration := time.Since(start)
	status := rc.status
	if status == 0 {
		status = http.StatusOK
	}

	// Get client IP (respecting X-Forwarded-For if present)
	clientIP := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		clientIP = xff
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
		zap.String("client_ip", clientIP),
	}
	if ua := r.UserAgent(); ua != "" {
		fields = append(fields, zap.String("user_agent", ua))
	}

	if status >= http.StatusInternalServerError {
		rl.logger.Error("request", fields...)
		return
	}
	rl.logger.Info("request", fields...)
}
