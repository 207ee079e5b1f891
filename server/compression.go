package server

import (
	"compress/gzip"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/sambeau/unitconv/config"
)

// compressibleTypes are the responses worth compressing: API JSON and the
// HTML catalog. /metrics negotiates its own encoding.
var compressibleTypes = []string{"application/json", "text/html"}

// compressionLevels maps config levels to gzip levels. "none" never reaches
// the wrapper.
var compressionLevels = map[string]int{
	"fastest": gzip.BestSpeed,
	"default": gzip.DefaultCompression,
	"best":    gzip.BestCompression,
}

// newCompressionHandler wraps an HTTP handler with gzip compression middleware.
// Returns the original handler if compression is disabled or level is "none".
func newCompressionHandler(h http.Handler, cfg config.CompressionConfig, logger *zap.Logger) http.Handler {
	if !cfg.Enabled || cfg.Level == "none" {
		return h
	}

	level, ok := compressionLevels[cfg.Level]
	if !ok {
		logger.Warn("unknown compression level, using default", zap.String("level", cfg.Level))
		level = gzip.DefaultCompression
	}

	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(cfg.MinSize),
		gzhttp.CompressionLevel(level),
		gzhttp.ContentTypes(compressibleTypes),
	)
	if err != nil {
		logger.Error("compression disabled", zap.Error(err))
		return h
	}

	return wrapper(h)
}
