package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	rl := newRequestLogger(handler, zap.New(core))

	req := httptest.NewRequest("GET", "/api/convert?value=1", nil)
	req.Header.Set("User-Agent", "test-agent")
	rl.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/convert", fields["path"])
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, "test-agent", fields["user_agent"])
	assert.Contains(t, fields, "duration")
}

func TestRequestLogger_Status(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"not found", http.StatusNotFound, zapcore.InfoLevel},
		{"bad request", http.StatusBadRequest, zapcore.InfoLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			newRequestLogger(handler, zap.New(core)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, int64(tt.status), entry.ContextMap()["status"])
		})
	}
}

func TestRequestLogger_XForwardedFor(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	newRequestLogger(handler, zap.New(core)).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "203.0.113.7", logs.All()[0].ContextMap()["client_ip"])
}

func TestResponseCapture(t *testing.T) {
	rec := httptest.NewRecorder()
	rc := &responseCapture{ResponseWriter: rec}

	_, _ = rc.Write([]byte("x"))
	assert.Equal(t, http.StatusOK, rc.status)
	assert.Same(t, http.ResponseWriter(rec), rc.Unwrap())
}
