package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sambeau/unitconv/config"
)

// newLogger builds a zap logger from the logging config. The returned level
// can be changed at runtime; the close func releases a log file, if any.
func newLogger(cfg config.LoggingConfig, stdout, stderr io.Writer) (*zap.Logger, zap.AtomicLevel, func() error, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, level, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	}

	closeFn := func() error { return nil }
	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "", "stderr":
		sink = zapcore.AddSync(stderr)
	case "stdout":
		sink = zapcore.AddSync(stdout)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, level, nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		closeFn = f.Close
	}

	logger := zap.New(zapcore.NewCore(encoder, sink, level))
	return logger, level, closeFn, nil
}
