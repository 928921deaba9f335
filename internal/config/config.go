package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultBackendTimeout = 10 * time.Second
	defaultEnvironment    = "local"
	defaultLang           = "fr"
	defaultLogLevel       = "info"
	defaultPreviewSize    = 3
	legacyBackendSuffix   = "/api"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Site      SiteConfig
	Session   SessionConfig
	Analytics AnalyticsConfig
	LogLevel  string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address derived from the port.
func (s ServerConfig) Address() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// BackendConfig points the site at the REST API serving catalogues and leads.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SiteConfig controls rendering and locale behaviour.
type SiteConfig struct {
	Environment  string
	Dev          bool
	BaseURL      string
	DefaultLang  string
	Langs        []string
	TemplatesDir string
	ContentDir   string
	// PreviewSize bounds the home-page previews of chassis types and realisations.
	PreviewSize int
}

// IsProduction reports whether the site runs with production cookie settings.
func (s SiteConfig) IsProduction() bool {
	return s.Environment == "prod"
}

// SessionConfig carries the securecookie keys. Empty keys are generated per process.
type SessionConfig struct {
	HashKey  string
	BlockKey string
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string
	Debug            bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises the loader.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "SDC_WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  durationWithDefault(lookup, "SDC_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SDC_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SDC_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Backend: BackendConfig{
			BaseURL: backendBaseURL(lookup),
			Timeout: durationWithDefault(lookup, "SDC_WEB_BACKEND_TIMEOUT", defaultBackendTimeout),
		},
		Site: SiteConfig{
			Environment:  strings.ToLower(stringWithDefault(lookup, "SDC_WEB_ENV", defaultEnvironment)),
			Dev:          boolWithDefault(lookup, "SDC_WEB_DEV", false),
			BaseURL:      strings.TrimRight(stringWithDefault(lookup, "SDC_WEB_BASE_URL", ""), "/"),
			DefaultLang:  strings.ToLower(stringWithDefault(lookup, "SDC_WEB_DEFAULT_LANG", defaultLang)),
			Langs:        csvWithDefault(lookup, "SDC_WEB_LANGS", []string{"fr", "en"}),
			TemplatesDir: stringWithDefault(lookup, "SDC_WEB_TEMPLATES_DIR", "templates"),
			ContentDir:   stringWithDefault(lookup, "SDC_WEB_CONTENT_DIR", "content"),
			PreviewSize:  intWithDefault(lookup, "SDC_WEB_PREVIEW_SIZE", defaultPreviewSize),
		},
		Session: SessionConfig{
			HashKey:  stringWithDefault(lookup, "SDC_WEB_SESSION_HASH_KEY", ""),
			BlockKey: stringWithDefault(lookup, "SDC_WEB_SESSION_BLOCK_KEY", ""),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "SDC_WEB_GA_MEASUREMENT_ID", ""),
			Debug:            boolWithDefault(lookup, "SDC_WEB_ANALYTICS_DEBUG", false),
		},
		LogLevel: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// backendBaseURL prefers the explicit API base and falls back to the legacy
// frontend variable, which named the backend host without the /api prefix.
func backendBaseURL(lookup func(string) (string, bool)) string {
	if v := stringWithDefault(lookup, "SDC_WEB_BACKEND_URL", ""); v != "" {
		return strings.TrimRight(strings.TrimSpace(v), "/")
	}
	if v := stringWithDefault(lookup, "REACT_APP_BACKEND_URL", ""); v != "" {
		return strings.TrimRight(strings.TrimSpace(v), "/") + legacyBackendSuffix
	}
	return ""
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Backend.BaseURL == "" {
		missing = append(missing, "Backend.BaseURL")
	} else if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "Backend.BaseURL")
	}
	if cfg.Backend.Timeout <= 0 {
		missing = append(missing, "Backend.Timeout")
	}
	if cfg.Site.PreviewSize < 0 {
		missing = append(missing, "Site.PreviewSize")
	}
	if cfg.Site.DefaultLang == "" {
		missing = append(missing, "Site.DefaultLang")
	} else if !contains(cfg.Site.Langs, cfg.Site.DefaultLang) {
		missing = append(missing, "Site.Langs")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
