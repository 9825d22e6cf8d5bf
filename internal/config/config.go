package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// The probe always targets the same endpoint with the same number of clients.
// These are fixed at build time and are not exposed as flags, file keys or
// environment variables.
const (
	DefaultTargetURL  = "http://example.com"
	DefaultClients    = 50
	DefaultStaggerMin = 100 * time.Millisecond
	DefaultStaggerMax = 500 * time.Millisecond
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Config struct {
	TargetURL  string        `mapstructure:"-"`
	Clients    int           `mapstructure:"-"`
	StaggerMin time.Duration `mapstructure:"-"`
	StaggerMax time.Duration `mapstructure:"-"`
	Format     Format        `mapstructure:"format"`
	LogLevel   string        `mapstructure:"log_level"`
	Tracing    TracingConfig `mapstructure:"tracing"`
	ConfigFile string        `mapstructure:"-"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector address; falls back to OTEL_EXPORTER_OTLP_ENDPOINT
	Protocol    string  `mapstructure:"protocol"`     // "grpc" or "http"
	Insecure    bool    `mapstructure:"insecure"`     // plaintext connection to the collector
	ServiceName string  `mapstructure:"service_name"` // falls back to OTEL_SERVICE_NAME, then "stagger"
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0-1.0
}

// Default returns the configuration used by the stagger binary.
func Default() Config {
	return Config{
		TargetURL:  DefaultTargetURL,
		Clients:    DefaultClients,
		StaggerMin: DefaultStaggerMin,
		StaggerMax: DefaultStaggerMax,
		Format:     FormatText,
		LogLevel:   "warn",
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if target := strings.TrimSpace(c.TargetURL); target == "" {
		issues = append(issues, "target is required")
	} else if u, err := url.Parse(target); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		issues = append(issues, fmt.Sprintf("target %q must be an absolute http(s) URL", target))
	}

	if c.Clients < 0 {
		issues = append(issues, "clients must be >= 0")
	}
	if c.StaggerMin < 0 {
		issues = append(issues, "stagger minimum must be >= 0")
	}
	if c.StaggerMax < c.StaggerMin {
		issues = append(issues, "stagger maximum must be >= stagger minimum")
	}

	switch c.Format {
	case "", FormatText, FormatJSON, FormatYAML:
	default:
		issues = append(issues, fmt.Sprintf("format %q is not supported (use text, json or yaml)", c.Format))
	}

	if tracingIssues := validateTracingConfig(c.Tracing); len(tracingIssues) > 0 {
		issues = append(issues, tracingIssues...)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(tc TracingConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(tc.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported (use grpc or http)", tc.Protocol))
	}
	if tc.SampleRate < 0 || tc.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", tc.SampleRate))
	}
	return issues
}

// Active reports whether spans should be exported. Naming an endpoint is enough
// to turn tracing on.
func (tc TracingConfig) Active() bool {
	return tc.Enabled || strings.TrimSpace(tc.Endpoint) != ""
}
