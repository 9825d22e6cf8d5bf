package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/torosent/stagger/internal/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != config.DefaultTargetURL {
		t.Errorf("TargetURL = %q, want %q", cfg.TargetURL, config.DefaultTargetURL)
	}
	if cfg.Clients != 50 {
		t.Errorf("Clients = %d, want 50", cfg.Clients)
	}
	if cfg.StaggerMin != 100*time.Millisecond || cfg.StaggerMax != 500*time.Millisecond {
		t.Errorf("stagger = [%s, %s), want [100ms, 500ms)", cfg.StaggerMin, cfg.StaggerMax)
	}
	if cfg.Format != config.FormatText {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Tracing.Active() {
		t.Errorf("Tracing.Active() = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestHelpRequested(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestTargetAndClientsAreNotFlags(t *testing.T) {
	for _, args := range [][]string{
		{"--target", "http://other.test"},
		{"--clients", "5"},
		{"-c", "5"},
		{"http://other.test"},
	} {
		if _, err := config.NewLoader().Load(args); err == nil {
			t.Errorf("Load(%v) error = nil, want error", args)
		}
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stagger.yaml")
	content := `
format: json
log_level: debug
tracing:
  endpoint: collector:4317
  protocol: http
  insecure: true
  service_name: probe
  sample_rate: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "--format", "yaml"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.Format != config.FormatYAML {
		t.Errorf("Format = %q, want yaml (flag overrides file)", cfg.Format)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.Tracing.Active() {
		t.Errorf("Tracing.Active() = false, want true")
	}
	if cfg.Tracing.Endpoint != "collector:4317" {
		t.Errorf("Tracing.Endpoint = %q, want collector:4317", cfg.Tracing.Endpoint)
	}
	if cfg.Tracing.Protocol != "http" {
		t.Errorf("Tracing.Protocol = %q, want http", cfg.Tracing.Protocol)
	}
	if !cfg.Tracing.Insecure {
		t.Errorf("Tracing.Insecure = false, want true")
	}
	if cfg.Tracing.ServiceName != "probe" {
		t.Errorf("Tracing.ServiceName = %q, want probe", cfg.Tracing.ServiceName)
	}
	if cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("Tracing.SampleRate = %g, want 0.5", cfg.Tracing.SampleRate)
	}
	if cfg.TargetURL != config.DefaultTargetURL || cfg.Clients != config.DefaultClients {
		t.Errorf("fixed settings changed: target=%q clients=%d", cfg.TargetURL, cfg.Clients)
	}
}

func TestLoadConfigFileRejectsFixedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stagger.json")
	if err := os.WriteFile(path, []byte(`{"target": "http://other.test", "format": "json"}`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := config.NewLoader().Load([]string{"--config", path})
	if err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "target") {
		t.Errorf("error %q does not mention target", err)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STAGGER_FORMAT", "json")
	t.Setenv("STAGGER_TRACING_SAMPLE_RATE", "0.25")
	t.Setenv("STAGGER_TARGET", "http://ignored.test")

	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != config.FormatJSON {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("Tracing.SampleRate = %g, want 0.25", cfg.Tracing.SampleRate)
	}
	if cfg.TargetURL != config.DefaultTargetURL {
		t.Errorf("TargetURL = %q, want %q", cfg.TargetURL, config.DefaultTargetURL)
	}
}

func TestConfigValidationErrors(t *testing.T) {
	valid := config.Default()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{
			name:   "missing target",
			mutate: func(c *config.Config) { c.TargetURL = "" },
			want:   []string{"target"},
		},
		{
			name:   "relative target",
			mutate: func(c *config.Config) { c.TargetURL = "/status" },
			want:   []string{"absolute"},
		},
		{
			name: "negative values",
			mutate: func(c *config.Config) {
				c.Clients = -1
				c.StaggerMin = -time.Second
			},
			want: []string{"clients", "stagger minimum"},
		},
		{
			name: "inverted stagger",
			mutate: func(c *config.Config) {
				c.StaggerMin = time.Second
				c.StaggerMax = time.Millisecond
			},
			want: []string{"stagger maximum"},
		},
		{
			name:   "format",
			mutate: func(c *config.Config) { c.Format = "xml" },
			want:   []string{"format"},
		},
		{
			name: "tracing",
			mutate: func(c *config.Config) {
				c.Tracing.Protocol = "thrift"
				c.Tracing.SampleRate = 2
			},
			want: []string{"tracing protocol", "sample_rate"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() error = nil, want error")
			}
			var verr config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type = %T, want ValidationError", err)
			}
			joined := strings.Join(verr.Issues(), "|")
			for _, fragment := range tc.want {
				if !strings.Contains(joined, fragment) {
					t.Errorf("issues %q missing %q", joined, fragment)
				}
			}
		})
	}
}

func TestZeroClientsIsValid(t *testing.T) {
	cfg := config.Default()
	cfg.Clients = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
