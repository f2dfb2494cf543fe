package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoad_Defaults tests that loading with no file and no env produces the
// documented defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Source.ReposDir != "repos" {
		t.Errorf("Source.ReposDir = %q, want %q", cfg.Source.ReposDir, "repos")
	}
	if cfg.Source.OutputDir != "commit_data" {
		t.Errorf("Source.OutputDir = %q, want %q", cfg.Source.OutputDir, "commit_data")
	}
	if cfg.Extract.MaxCommits != DefaultMaxCommits {
		t.Errorf("Extract.MaxCommits = %d, want %d", cfg.Extract.MaxCommits, DefaultMaxCommits)
	}
	if cfg.Extract.MaxDiffBytes != DefaultMaxDiffBytes {
		t.Errorf("Extract.MaxDiffBytes = %d, want %d", cfg.Extract.MaxDiffBytes, DefaultMaxDiffBytes)
	}
	if cfg.Extract.MaxStyleBytes != DefaultMaxStyleBytes {
		t.Errorf("Extract.MaxStyleBytes = %d, want %d", cfg.Extract.MaxStyleBytes, DefaultMaxStyleBytes)
	}
	if cfg.Extract.SkipBotCommits || cfg.Extract.MarkSource || cfg.Extract.IncludeLicense {
		t.Error("extraction toggles should default to false")
	}
	if cfg.Dispatch.Workers != DefaultWorkers {
		t.Errorf("Dispatch.Workers = %d, want %d", cfg.Dispatch.Workers, DefaultWorkers)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want info/console", cfg.Logging)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled should default to false")
	}
}

// TestLoad_ValidYAML tests loading configuration from a YAML file.
func TestLoad_ValidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `source:
  repos_dir: /srv/mirrors
  output_dir: /srv/corpus

extract:
  max_commits: 250
  skip_bot_commits: true

dispatch:
  workers: 8
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Source.ReposDir != "/srv/mirrors" {
		t.Errorf("Source.ReposDir = %q, want %q", cfg.Source.ReposDir, "/srv/mirrors")
	}
	if cfg.Extract.MaxCommits != 250 {
		t.Errorf("Extract.MaxCommits = %d, want 250", cfg.Extract.MaxCommits)
	}
	if !cfg.Extract.SkipBotCommits {
		t.Error("Extract.SkipBotCommits = false, want true")
	}
	if cfg.Dispatch.Workers != 8 {
		t.Errorf("Dispatch.Workers = %d, want 8", cfg.Dispatch.Workers)
	}

	// Untouched sections still get defaults
	if cfg.Extract.MaxDiffBytes != DefaultMaxDiffBytes {
		t.Errorf("Extract.MaxDiffBytes = %d, want default %d", cfg.Extract.MaxDiffBytes, DefaultMaxDiffBytes)
	}
}

// TestLoad_EnvironmentOverride tests that environment variables override YAML.
func TestLoad_EnvironmentOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `source:
  repos_dir: from-yaml

extract:
  max_commits: 100
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	os.Setenv("SOURCE_REPOS_DIR", "from-env")
	os.Setenv("EXTRACT_MAX_COMMITS", "42")
	defer os.Unsetenv("SOURCE_REPOS_DIR")
	defer os.Unsetenv("EXTRACT_MAX_COMMITS")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Source.ReposDir != "from-env" {
		t.Errorf("Source.ReposDir = %q, want env override %q", cfg.Source.ReposDir, "from-env")
	}
	if cfg.Extract.MaxCommits != 42 {
		t.Errorf("Extract.MaxCommits = %d, want env override 42", cfg.Extract.MaxCommits)
	}
}

// TestLoad_MissingExplicitFile tests that a named config file must exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() with missing explicit file should error")
	}
}

// TestLoad_MalformedYAML tests that broken YAML is rejected.
func TestLoad_MalformedYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("source: [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() with malformed YAML should error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty repos dir",
			mutate:  func(c *Config) { c.Source.ReposDir = "" },
			wantErr: "repos_dir",
		},
		{
			name:    "zero max commits",
			mutate:  func(c *Config) { c.Extract.MaxCommits = 0 },
			wantErr: "max_commits",
		},
		{
			name:    "negative diff ceiling",
			mutate:  func(c *Config) { c.Extract.MaxDiffBytes = -1 },
			wantErr: "max_diff_bytes",
		},
		{
			name:    "negative style ceiling",
			mutate:  func(c *Config) { c.Extract.MaxStyleBytes = -1 },
			wantErr: "max_style_bytes",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Dispatch.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "bad logging level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging level",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "format",
		},
		{
			name: "telemetry enabled without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			wantErr: "endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", d.Duration())
	}

	if err := d.UnmarshalText([]byte("-5s")); err == nil {
		t.Error("UnmarshalText() should reject negative durations")
	}
	if err := d.UnmarshalText([]byte("not-a-duration")); err == nil {
		t.Error("UnmarshalText() should reject garbage")
	}
}
