package server

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sambeau/unitconv/config"
)

func jsonHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func serveCompressed(h http.Handler, cfg config.CompressionConfig, acceptGzip bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/categories", nil)
	if acceptGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	rec := httptest.NewRecorder()
	newCompressionHandler(h, cfg, zap.NewNop()).ServeHTTP(rec, req)
	return rec
}

func TestCompressionHandler(t *testing.T) {
	large := `{"units":[` + strings.Repeat(`{"id":"kibibytes","label":"kibibytes"},`, 100) + `{}]}`

	tests := []struct {
		name     string
		cfg      config.CompressionConfig
		body     string
		accept   bool
		wantGzip bool
	}{
		{"disabled", config.CompressionConfig{Enabled: false, Level: "default", MinSize: 10}, large, true, false},
		{"level none", config.CompressionConfig{Enabled: true, Level: "none", MinSize: 10}, large, true, false},
		{"below min size", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 1024}, `{"status":"ok"}`, true, false},
		{"client without gzip", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 10}, large, false, false},
		{"fastest", config.CompressionConfig{Enabled: true, Level: "fastest", MinSize: 10}, large, true, true},
		{"default", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 10}, large, true, true},
		{"best", config.CompressionConfig{Enabled: true, Level: "best", MinSize: 10}, large, true, true},
		{"unknown level falls back", config.CompressionConfig{Enabled: true, Level: "max", MinSize: 10}, large, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCompressed(jsonHandler(tt.body), tt.cfg, tt.accept)

			if !tt.wantGzip {
				assert.NotEqual(t, "gzip", rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}

			require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			defer reader.Close()
			decompressed, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(decompressed))
		})
	}
}

func TestCompressionHandler_OnlyCompressibleTypes(t *testing.T) {
	cfg := config.CompressionConfig{Enabled: true, Level: "default", MinSize: 10}
	body := strings.Repeat("1 hours = 3600 seconds\n", 100)
	plain := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})

	rec := serveCompressed(plain, cfg, true)
	assert.NotEqual(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, body, rec.Body.String())
}

func TestCompressionHandler_UnknownLevelIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := config.CompressionConfig{Enabled: true, Level: "max", MinSize: 10}

	h := newCompressionHandler(jsonHandler(`{}`), cfg, zap.New(core))
	require.NotNil(t, h)

	entries := logs.FilterMessage("unknown compression level, using default").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "max", entries[0].ContextMap()["level"])
}

func TestCompressionHandler_CatalogIsCompressed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/catalog", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestCompressionHandler_CategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(reader).Decode(&body))
	assert.Contains(t, body, "categories")
}
