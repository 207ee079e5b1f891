package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Config represents the complete unitconv configuration
type Config struct {
	BaseDir     string            `yaml:"-"` // Directory containing config file, for resolving relative paths
	Server      ServerConfig      `yaml:"server"`
	Compression CompressionConfig `yaml:"compression"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Logging     LoggingConfig     `yaml:"logging"`
	Engine      EngineConfig      `yaml:"engine"`
	Store       StoreConfig       `yaml:"store"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Watch       bool              `yaml:"watch"` // Reload engine and log level when the config file changes
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Dev  bool   `yaml:"-"` // Set via CLI flag, not config
}

// CompressionConfig holds HTTP response compression settings
type CompressionConfig struct {
	Enabled bool   `yaml:"enabled"`  // Enable gzip compression (default: true)
	Level   string `yaml:"level"`    // Compression level: "fastest", "default", "best", "none" (default: "default")
	MinSize int    `yaml:"min_size"` // Minimum response size to compress in bytes (default: 1024)
}

// CORSConfig holds Cross-Origin Resource Sharing settings for the API.
// No origins means CORS headers are never sent.
type CORSConfig struct {
	Origins     []string `yaml:"origins"`     // Allowed origins, or "*" for any
	Methods     []string `yaml:"methods"`     // Allowed methods (default: GET, HEAD, POST)
	Headers     []string `yaml:"headers"`     // Allowed request headers (default: echo the request)
	MaxAge      int      `yaml:"max_age"`     // Preflight cache duration in seconds
	Credentials bool     `yaml:"credentials"` // Allow cookies and auth headers
}

// RateLimitConfig limits conversion requests per client IP.
// Zero requests disables the limit.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"` // e.g. "1m"

	// Proxies (CIDRs or single IPs) whose X-Forwarded-For is believed.
	// Requests from anywhere else are keyed by their remote address.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// ParseTrustedProxies parses TrustedProxies. A bare IP is a single-host prefix.
func (c RateLimitConfig) ParseTrustedProxies() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
	Quiet  bool   `yaml:"quiet"`  // suppress request logs
}

// EngineConfig selects the conversion behaviour used by the CLI, REPL and server
type EngineConfig struct {
	LegacyTargetFallback bool `yaml:"legacy_target_fallback"` // Reproduce the historical Throughput target lookup
	Strict               bool `yaml:"strict"`                 // Use category-checked conversion by default
}

// StoreConfig holds the unit preference database settings.
// An empty DSN disables the store.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres, or mysql
	DSN    string `yaml:"dsn"`    // Driver-specific data source; relative sqlite paths resolve against the config file
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "",
			Port: 8080,
		},
		Compression: CompressionConfig{
			Enabled: true,
			Level:   "default",
			MinSize: 1024,
		},
		RateLimit: RateLimitConfig{
			Window: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
