package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults when none exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no file was found and defaults are in use.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, "", err
	}
	cfg.BaseDir = filepath.Dir(absPath)
	resolvePaths(cfg)

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// Parse decodes YAML over Defaults after interpolating environment variables.
// It does not validate.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// resolvePaths makes relative file paths absolute against cfg.BaseDir.
func resolvePaths(cfg *Config) {
	if cfg.BaseDir == "" {
		return
	}

	if cfg.Store.Driver == "sqlite" && isRelativeFile(cfg.Store.DSN) {
		cfg.Store.DSN = filepath.Join(cfg.BaseDir, cfg.Store.DSN)
	}

	switch cfg.Logging.Output {
	case "", "stderr", "stdout":
	default:
		if !filepath.IsAbs(cfg.Logging.Output) {
			cfg.Logging.Output = filepath.Join(cfg.BaseDir, cfg.Logging.Output)
		}
	}
}

// isRelativeFile reports whether a sqlite DSN names a relative file path.
func isRelativeFile(dsn string) bool {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return false
	}
	return !filepath.IsAbs(dsn)
}

// Validate checks the configuration and reports every problem at once.
// Call this after applying CLI overrides (like --port).
func Validate(cfg *Config) error {
	var errs []string

	// Server validation
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port: %d (must be 1-65535)", cfg.Server.Port))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	// Compression validation
	validCompression := map[string]bool{"fastest": true, "default": true, "best": true, "none": true}
	if !validCompression[cfg.Compression.Level] {
		errs = append(errs, fmt.Sprintf("invalid compression level: %s (must be fastest, default, best, or none)", cfg.Compression.Level))
	}
	if cfg.Compression.MinSize < 0 {
		errs = append(errs, fmt.Sprintf("invalid compression min_size: %d (must not be negative)", cfg.Compression.MinSize))
	}

	// Rate limit validation
	if cfg.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Sprintf("invalid rate_limit requests: %d (must not be negative)", cfg.RateLimit.Requests))
	}
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Sprintf("invalid rate_limit window: %s (must be positive)", cfg.RateLimit.Window))
	}
	if _, err := cfg.RateLimit.ParseTrustedProxies(); err != nil {
		errs = append(errs, "rate_limit: "+err.Error())
	}

	// Store validation
	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[cfg.Store.Driver] {
		errs = append(errs, fmt.Sprintf("invalid store driver: %s (must be sqlite, postgres, or mysql)", cfg.Store.Driver))
	}

	// Metrics validation
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("invalid metrics path: %q (must start with /)", cfg.Metrics.Path))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Engine.LegacyTargetFallback {
		if cfg.Engine.Strict {
			warnings = append(warnings, "engine: legacy_target_fallback has no effect in strict mode")
		} else {
			warnings = append(warnings, "engine: legacy_target_fallback is enabled - throughput targets are resolved from the source unit")
		}
	}

	if cfg.CORS.Credentials && slices.Contains(cfg.CORS.Origins, "*") {
		warnings = append(warnings, "cors: credentials with origin \"*\" - the request origin is echoed back")
	}

	if cfg.Watch && cfg.BaseDir == "" {
		warnings = append(warnings, "watch is enabled but no config file was loaded - nothing to watch")
	}

	if cfg.Store.Driver == "sqlite" && cfg.Store.DSN == ":memory:" {
		warnings = append(warnings, "store: sqlite :memory: database - preferences are lost on exit")
	}

	return warnings
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > UNITCONV_CONFIG env > ./unitconv.yaml > ~/.config/unitconv/unitconv.yaml
// An empty path with a nil error means no file was found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try UNITCONV_CONFIG environment variable
	if envPath := getenv("UNITCONV_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("UNITCONV_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	// Try ./unitconv.yaml
	if _, err := os.Stat("unitconv.yaml"); err == nil {
		return "unitconv.yaml", nil
	}

	// Try ~/.config/unitconv/unitconv.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "unitconv", "unitconv.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}
