// Package config provides configuration loading for gitcorpus.
//
// Configuration is loaded from an optional YAML file, then overridden by
// environment variables. Command-line flags are applied on top by the CLI.
// Zero values are treated as unset and replaced with defaults before
// validation.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete gitcorpus configuration.
type Config struct {
	Source    SourceConfig    `koanf:"source"`
	Extract   ExtractConfig   `koanf:"extract"`
	Dispatch  DispatchConfig  `koanf:"dispatch"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// SourceConfig locates the input repositories and the output directory.
type SourceConfig struct {
	ReposDir  string `koanf:"repos_dir"`
	OutputDir string `koanf:"output_dir"`
}

// ExtractConfig bounds what is extracted from each repository.
type ExtractConfig struct {
	MaxCommits     int  `koanf:"max_commits"`
	MaxDiffBytes   int  `koanf:"max_diff_bytes"`
	MaxStyleBytes  int  `koanf:"max_style_bytes"`
	SkipBotCommits bool `koanf:"skip_bot_commits"`
	MarkSource     bool `koanf:"mark_source"`
	IncludeLicense bool `koanf:"include_license"`
}

// DispatchConfig controls repository-level parallelism.
type DispatchConfig struct {
	Workers int `koanf:"workers"`
}

// LoggingConfig selects log verbosity and encoding.
// The logging package owns the full logger configuration; these two fields
// are the only knobs exposed on the CLI surface.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry metric export configuration.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	ServiceName    string   `koanf:"service_name"`
	Insecure       bool     `koanf:"insecure"`
	ExportInterval Duration `koanf:"export_interval"`
}

// Default extraction bounds. These match the long-standing behavior of the
// pipeline: diffs beyond the ceiling are truncated, not dropped, and the
// style-guide snapshot gets its own smaller ceiling.
const (
	DefaultMaxCommits    = 1000
	DefaultMaxDiffBytes  = 50000
	DefaultMaxStyleBytes = 10000
	DefaultWorkers       = 4
)

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Source.ReposDir == "" {
		cfg.Source.ReposDir = "repos"
	}
	if cfg.Source.OutputDir == "" {
		cfg.Source.OutputDir = "commit_data"
	}

	if cfg.Extract.MaxCommits == 0 {
		cfg.Extract.MaxCommits = DefaultMaxCommits
	}
	if cfg.Extract.MaxDiffBytes == 0 {
		cfg.Extract.MaxDiffBytes = DefaultMaxDiffBytes
	}
	if cfg.Extract.MaxStyleBytes == 0 {
		cfg.Extract.MaxStyleBytes = DefaultMaxStyleBytes
	}

	if cfg.Dispatch.Workers == 0 {
		cfg.Dispatch.Workers = DefaultWorkers
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "gitcorpus"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = Duration(15 * time.Second)
	}
}

// Validate checks the configuration for errors.
//
// Returns an error if:
//   - Directories are empty strings
//   - Extraction bounds are out of range
//   - Worker count is not positive
//   - Logging level or format is unrecognized
//   - Telemetry is enabled without an endpoint
func (c *Config) Validate() error {
	if c.Source.ReposDir == "" {
		return fmt.Errorf("source repos_dir cannot be empty")
	}
	if c.Source.OutputDir == "" {
		return fmt.Errorf("source output_dir cannot be empty")
	}

	if c.Extract.MaxCommits < 1 {
		return fmt.Errorf("extract max_commits must be >= 1, got %d", c.Extract.MaxCommits)
	}
	if c.Extract.MaxDiffBytes < 0 {
		return fmt.Errorf("extract max_diff_bytes must be >= 0, got %d", c.Extract.MaxDiffBytes)
	}
	if c.Extract.MaxStyleBytes < 0 {
		return fmt.Errorf("extract max_style_bytes must be >= 0, got %d", c.Extract.MaxStyleBytes)
	}

	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch workers must be >= 1, got %d", c.Dispatch.Workers)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return fmt.Errorf("unrecognized logging level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry endpoint required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return fmt.Errorf("telemetry service_name required when telemetry is enabled")
		}
		if c.Telemetry.ExportInterval.Duration() <= 0 {
			return fmt.Errorf("telemetry export_interval must be > 0")
		}
	}

	return nil
}
