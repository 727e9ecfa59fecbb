// Package config loads and validates backfill configuration.
//
// DESIGN: Precedence is defaults < YAML file < command-line flags. The YAML is
// expanded with ExpandEnvWithDefaults before parsing, so the credential is
// normally written as ${GASOMETER_API_KEY} and never stored in the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gasometer/backfill/internal/attribution"
	"github.com/gasometer/backfill/internal/monitoring"
)

// Config is the top-level configuration.
type Config struct {
	ProjectsDir string            `yaml:"projects_dir"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Attribution AttributionConfig `yaml:"attribution"`
	Progress    ProgressConfig    `yaml:"progress"`
	Export      ExportConfig      `yaml:"export"`
	Logger      LoggerConfig      `yaml:"logger"`

	// DryRun skips the network phase even when a key is configured.
	DryRun bool `yaml:"dry_run"`
}

// IngestConfig configures the ingest endpoint.
type IngestConfig struct {
	URL         string        `yaml:"url"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// AttributionConfig lists the rigs recognized in project directory names.
type AttributionConfig struct {
	Rigs []string `yaml:"rigs"`
}

// ProgressConfig sets how often progress lines are printed. 0 disables them.
type ProgressConfig struct {
	ParseEvery    int `yaml:"parse_every"`
	DispatchEvery int `yaml:"dispatch_every"`
}

// LoggerConfig is an alias for monitoring.LoggerConfig.
type LoggerConfig = monitoring.LoggerConfig

// ExportConfig is an alias for monitoring.ExportConfig.
type ExportConfig = monitoring.ExportConfig

// Default returns a Config with sensible defaults.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		ProjectsDir: filepath.Join(home, DefaultProjectsSubdir),
		Ingest: IngestConfig{
			URL:         DefaultIngestURL,
			APIKey:      ExpandEnvWithDefaults(DefaultAPIKeyRef),
			Timeout:     DefaultTimeout,
			Concurrency: DefaultConcurrency,
		},
		Attribution: AttributionConfig{
			Rigs: append([]string(nil), attribution.DefaultRigs...),
		},
		Progress: ProgressConfig{
			ParseEvery:    DefaultParseProgressEvery,
			DispatchEvery: DefaultDispatchProgressEvery,
		},
		Logger: LoggerConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML bytes on top of the defaults and validates them.
// Environment variable references in values are expanded.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	expanded := ExpandEnvWithDefaults(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ProjectsDir = ExpandHome(cfg.ProjectsDir)
	cfg.Export.Path = ExpandHome(cfg.Export.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ProjectsDir) == "" {
		errs = append(errs, errors.New("projects_dir is required"))
	}
	if strings.TrimSpace(c.Ingest.URL) == "" {
		errs = append(errs, errors.New("ingest.url is required"))
	} else if !strings.HasPrefix(c.Ingest.URL, "http://") && !strings.HasPrefix(c.Ingest.URL, "https://") {
		errs = append(errs, fmt.Errorf("ingest.url must be an http(s) URL, got %q", c.Ingest.URL))
	}
	if c.Ingest.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("ingest.timeout must be > 0, got %s", c.Ingest.Timeout))
	}
	if c.Ingest.Concurrency < 1 || c.Ingest.Concurrency > MaxConcurrency {
		errs = append(errs, fmt.Errorf("ingest.concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Ingest.Concurrency))
	}
	if c.Progress.ParseEvery < 0 || c.Progress.DispatchEvery < 0 {
		errs = append(errs, errors.New("progress intervals must be >= 0"))
	}
	return errors.Join(errs...)
}

// HasAPIKey reports whether a credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.Ingest.APIKey) != ""
}

// IsDryRun reports whether the network phase is skipped.
func (c *Config) IsDryRun() bool {
	return c.DryRun || !c.HasAPIKey()
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
